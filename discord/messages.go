package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// MessageCommandI is a plain-text command recognised by a literal prefix.
// It exists for clients and servers where slash commands are unavailable.
type MessageCommandI interface {
	GetPrefix() string
	FailureMessage() string
	// HandleMessage receives the text after the prefix, trimmed. The returned message is
	// sent as a reply to the triggering message.
	HandleMessage(inv Invoker, args string) (*discordgo.MessageSend, error)
}

// GenericMessageCommand is a function backed MessageCommandI.
type GenericMessageCommand struct {
	Prefix  string
	Handler func(Invoker, string) (*discordgo.MessageSend, error)
	Failure string
}

// GetPrefix returns the literal the message must start with, including any trailing space.
func (mc *GenericMessageCommand) GetPrefix() string {
	return mc.Prefix
}

// FailureMessage returns the message shown when the command fails unexpectedly.
func (mc *GenericMessageCommand) FailureMessage() string {
	if mc.Failure == "" {
		return defaultFailureMessage
	}
	return mc.Failure
}

// HandleMessage calls the handler.
func (mc *GenericMessageCommand) HandleMessage(inv Invoker, args string) (*discordgo.MessageSend, error) {
	return mc.Handler(inv, args)
}

// NewMessageCommand creates a prefix command. failure may be empty to use the generic message.
func NewMessageCommand(prefix string, handler func(Invoker, string) (*discordgo.MessageSend, error), failure string) MessageCommandI {
	return &GenericMessageCommand{
		Prefix:  prefix,
		Handler: handler,
		Failure: failure,
	}
}

// matchMessageCommand returns the first command whose prefix starts content, and the trimmed remainder.
func matchMessageCommand(commands []MessageCommandI, content string) (MessageCommandI, string, bool) {
	for _, cmd := range commands {
		if strings.HasPrefix(content, cmd.GetPrefix()) {
			return cmd, strings.TrimSpace(content[len(cmd.GetPrefix()):]), true
		}
	}
	return nil, "", false
}
