package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/mitchellh/mapstructure"
)

const defaultFailureMessage = "❌ There was an error processing your command. Please try again."

// Request is a blank interface for the command request definitions.
type Request interface{}

// BotFunctionI is the common interface for all bot slash commands.
type BotFunctionI interface {
	GetName() string
	GetRequestPrototype() Request
	// ApplicationCommand returns the definition registered with Discord.
	ApplicationCommand() (*discordgo.ApplicationCommand, error)
	// FailureMessage is shown to the user when the command fails unexpectedly.
	FailureMessage() string
	// HandleInteraction decodes interaction data into a request struct and calls the handler.
	// It returns the response data that can be sent directly to Discord.
	HandleInteraction(inv Invoker, data *discordgo.ApplicationCommandInteractionData) (*discordgo.InteractionResponseData, error)
}

// GenericBotFunction is a generic implementation of BotFunctionI.
type GenericBotFunction[T Request] struct {
	// Name is the command name.
	Name string
	// Description is shown in the Discord command picker.
	Description string
	// RequestPrototype is an instance of the request type (typically the zero value)
	// used for reflection to generate command options.
	RequestPrototype T
	// Handler is the function to execute for the command.
	Handler func(Invoker, T) (*discordgo.InteractionResponseData, error)
	// DefaultMemberPermissions hides the command from members lacking these permissions.
	// Nil leaves the command visible to everyone.
	DefaultMemberPermissions *int64
	// Failure is the message sent when the handler or the reply fails.
	Failure string
}

// FunctionOption customises a GenericBotFunction.
type FunctionOption func(*functionOptions)

type functionOptions struct {
	permissions *int64
	failure     string
}

// WithDefaultMemberPermissions restricts who sees the command in the picker.
// Handlers must still check permissions themselves, as server admins can override this.
func WithDefaultMemberPermissions(perms int64) FunctionOption {
	return func(o *functionOptions) {
		o.permissions = &perms
	}
}

// WithFailureMessage overrides the generic message shown when the command fails.
func WithFailureMessage(msg string) FunctionOption {
	return func(o *functionOptions) {
		o.failure = msg
	}
}

// GetName returns the command's name.
func (bf *GenericBotFunction[T]) GetName() string {
	return bf.Name
}

// GetRequestPrototype returns the command's request prototype.
func (bf *GenericBotFunction[T]) GetRequestPrototype() Request {
	return bf.RequestPrototype
}

// FailureMessage returns the message shown when the command fails unexpectedly.
func (bf *GenericBotFunction[T]) FailureMessage() string {
	if bf.Failure == "" {
		return defaultFailureMessage
	}
	return bf.Failure
}

// ApplicationCommand builds the slash command definition from the request prototype.
func (bf *GenericBotFunction[T]) ApplicationCommand() (*discordgo.ApplicationCommand, error) {
	options, err := structToCommandOptions(bf.RequestPrototype)
	if err != nil {
		return nil, fmt.Errorf("generating options for %s: %w", bf.Name, err)
	}
	description := bf.Description
	if description == "" {
		description = "Auto-generated command for " + bf.Name
	}
	return &discordgo.ApplicationCommand{
		Name:                     bf.Name,
		Description:              description,
		Type:                     discordgo.ChatApplicationCommand,
		Options:                  options,
		DefaultMemberPermissions: bf.DefaultMemberPermissions,
	}, nil
}

// HandleInteraction decodes the interaction options into a request of type T,
// applies defaults, rejects missing required options and then invokes the handler.
func (bf *GenericBotFunction[T]) HandleInteraction(inv Invoker, data *discordgo.ApplicationCommandInteractionData) (*discordgo.InteractionResponseData, error) {
	var req T

	// Build a map from option name to its value.
	optsMap := make(map[string]interface{})
	for _, opt := range data.Options {
		optsMap[opt.Name] = opt.Value
	}

	// Decode into req using mapstructure with our custom tag.
	decoderConfig := mapstructure.DecoderConfig{
		TagName:          "discord",
		Result:           &req,
		WeaklyTypedInput: true, // helps convert numbers and booleans automatically.
	}
	decoder, err := mapstructure.NewDecoder(&decoderConfig)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(optsMap); err != nil {
		return nil, InvalidInput(fmt.Sprintf("❌ Could not read the options for `/%s`.", bf.Name))
	}

	// Set default values on fields that are still zero.
	if err := setDefaults(&req); err != nil {
		return nil, err
	}
	if err := checkRequired(&req); err != nil {
		return nil, err
	}

	return bf.Handler(inv, req)
}

// NewBotFunction is a generic constructor that creates a new BotFunctionI command handler.
// It instantiates a GenericBotFunction with a zero-value prototype of type T (your request struct).
// The prototype generates the registered command options, and the same struct receives the
// decoded interaction options. Each field is configured with a "discord" struct tag whose first
// element is the option name, followed by any of:
//
//   - optional:    Marks the option as not required.
//   - description: Overrides the auto-generated option description. It must not contain commas.
//   - choices:     A semicolon-separated list of choices in the format "value|Label".
//   - default:     A default value assigned if the field remains unset after decoding.
func NewBotFunction[T Request](name, description string, handler func(Invoker, T) (*discordgo.InteractionResponseData, error), opts ...FunctionOption) BotFunctionI {
	var o functionOptions
	for _, opt := range opts {
		opt(&o)
	}

	var reqPrototype T
	return &GenericBotFunction[T]{
		Name:                     name,
		Description:              description,
		RequestPrototype:         reqPrototype,
		Handler:                  handler,
		DefaultMemberPermissions: o.permissions,
		Failure:                  o.failure,
	}
}
