package discord

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/bwmarrin/discordgo"
)

// Bot encapsulates the Discord session, configuration, registered commands, and schedules.
type Bot struct {
	session         Session
	config          BotConfig
	functions       []BotFunctionI
	messageCommands []MessageCommandI
	schedules       []BotScheduleI
	scheduleManager *scheduleManager
}

// BotConfig contains configuration for the bot.
type BotConfig struct {
	AppID    string
	BotToken string
	// GuildID scopes command registration to a single guild, which takes effect immediately.
	// Empty registers global commands.
	GuildID string
	// Activity is shown as the bot's "Watching" status. Empty leaves the status alone.
	Activity string
}

// NewBot creates a Discord session, registers the slash commands, then opens the gateway.
// Registration overwrites the application's commands in bulk, so running it again with the
// same functions is a no-op on Discord's side. Any failure is returned as an ErrorKindStartup error.
func NewBot(cfg BotConfig, functions []BotFunctionI, messageCommands []MessageCommandI, schedules []BotScheduleI) (*Bot, error) {
	// Create a new Discord session using the provided bot token.
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, startupFailure("creating session", err)
	}

	// Set necessary intents.
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	bot := newBot(cfg, dg, functions, messageCommands, schedules)
	if err := bot.start(); err != nil {
		return nil, err
	}
	return bot, nil
}

func newBot(cfg BotConfig, session Session, functions []BotFunctionI, messageCommands []MessageCommandI, schedules []BotScheduleI) *Bot {
	return &Bot{
		session:         session,
		config:          cfg,
		functions:       functions,
		messageCommands: messageCommands,
		schedules:       schedules,
	}
}

func (b *Bot) start() error {
	// Register event handlers.
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onMessageCreate)
	b.session.AddHandler(b.onInteractionCreate)

	if err := b.registerCommands(); err != nil {
		return err
	}

	// Open the websocket connection.
	if err := b.session.Open(); err != nil {
		return startupFailure("opening gateway connection", err)
	}

	if len(b.schedules) > 0 {
		b.scheduleManager = newScheduleManager(b.session, b.schedules)
		if err := b.scheduleManager.start(); err != nil {
			if closeErr := b.session.Close(); closeErr != nil {
				slog.Error("failed to close session", "error", closeErr)
			}
			return startupFailure("starting schedules", err)
		}
	}

	return nil
}

// registerCommands replaces the application's slash commands with b.functions.
func (b *Bot) registerCommands() error {
	commands := make([]*discordgo.ApplicationCommand, 0, len(b.functions))
	for _, fn := range b.functions {
		cmd, err := fn.ApplicationCommand()
		if err != nil {
			return startupFailure("building application commands", err)
		}
		slog.Debug("initialising function", "name", cmd.Name, "options", len(cmd.Options))
		commands = append(commands, cmd)
	}

	slog.Info("refreshing application commands", "count", len(commands), "guild", b.config.GuildID)
	registered, err := b.session.ApplicationCommandBulkOverwrite(b.config.AppID, b.config.GuildID, commands)
	if err != nil {
		return startupFailure("registering application commands", err)
	}
	slog.Info("reloaded application commands", "count", len(registered))
	return nil
}

// onReady logs the connected identity and sets the bot's activity.
func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	defer recoverHandler("ready")

	slog.Info("bot is ready", "user", r.User.Username, "user_id", r.User.ID, "guilds", len(r.Guilds))

	if b.config.Activity == "" {
		return
	}
	if err := b.session.UpdateWatchStatus(0, b.config.Activity); err != nil {
		slog.Error("failed to set activity", "activity", b.config.Activity, "error", err)
	}
}

// onMessageCreate routes messages that start with a registered prefix to their command.
func (b *Bot) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	defer recoverHandler("message_create", "message_id", m.ID)

	if m.Author == nil || m.Author.Bot {
		return
	}

	cmd, args, ok := matchMessageCommand(b.messageCommands, m.Content)
	if !ok {
		return
	}

	slog.Debug("message command received",
		"prefix", cmd.GetPrefix(),
		"author", m.Author.Username,
		"author_id", m.Author.ID,
		"channel_id", m.ChannelID)

	send, err := runMessageCommand(cmd, invokerFromUser(m.Author), args)
	if err != nil {
		msg := userMessage(err, cmd.FailureMessage(), "prefix", cmd.GetPrefix(), "author_id", m.Author.ID)
		if err := b.replyText(m.Message, msg); err != nil {
			slog.Error("failed to reply to message command", "prefix", cmd.GetPrefix(), "error", err)
		}
		return
	}

	if err := b.reply(m.Message, send); err != nil {
		slog.Error("failed to reply to message command", "prefix", cmd.GetPrefix(), "error", err)
		if err := b.replyText(m.Message, cmd.FailureMessage()); err != nil {
			slog.Error("failed to send failure message", "prefix", cmd.GetPrefix(), "error", err)
		}
	}
}

// onInteractionCreate routes slash commands to the BotFunction with the matching name.
func (b *Bot) onInteractionCreate(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	defer recoverHandler("interaction_create", "interaction_id", i.ID)

	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	cmdData := i.ApplicationCommandData()
	if cmdData.CommandType != discordgo.ChatApplicationCommand {
		return
	}

	slog.Debug("received interaction", "command", cmdData.Name, "interaction_id", i.ID)

	fn := b.findFunction(cmdData.Name)
	if fn == nil {
		slog.Warn("received unknown command", "command", cmdData.Name)
		if err := b.respondEphemeral(i.Interaction, "❌ Unknown command: "+cmdData.Name); err != nil {
			slog.Error("failed to respond to unknown command", "command", cmdData.Name, "error", err)
		}
		return
	}

	respData, err := runFunction(fn, invokerFromInteraction(i.Interaction), &cmdData)
	if err != nil {
		msg := userMessage(err, fn.FailureMessage(), "command", fn.GetName(), "interaction_id", i.ID)
		if err := b.respondEphemeral(i.Interaction, msg); err != nil {
			slog.Error("failed to respond to command", "command", fn.GetName(), "error", err)
		}
		return
	}

	// Respond to the interaction using the returned response data.
	if err := b.respond(i.Interaction, respData); err != nil {
		slog.Error("failed to respond to command", "command", fn.GetName(), "error", err)
		if err := b.respondEphemeral(i.Interaction, fn.FailureMessage()); err != nil {
			slog.Error("failed to send failure message", "command", fn.GetName(), "error", err)
		}
	}
}

func (b *Bot) findFunction(name string) BotFunctionI {
	for _, f := range b.functions {
		if f.GetName() == name {
			return f
		}
	}
	return nil
}

// runFunction calls the command handler, turning a panic into an unexpected error.
func runFunction(fn BotFunctionI, inv Invoker, data *discordgo.ApplicationCommandInteractionData) (resp *discordgo.InteractionResponseData, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp, err = nil, unexpected("command panicked", fmt.Errorf("%v", r))
		}
	}()

	resp, err = fn.HandleInteraction(inv, data)
	if err == nil && resp == nil {
		err = unexpected("command returned no response", nil)
	}
	return resp, err
}

// runMessageCommand is runFunction for prefix commands.
func runMessageCommand(cmd MessageCommandI, inv Invoker, args string) (send *discordgo.MessageSend, err error) {
	defer func() {
		if r := recover(); r != nil {
			send, err = nil, unexpected("message command panicked", fmt.Errorf("%v", r))
		}
	}()

	send, err = cmd.HandleMessage(inv, args)
	if err == nil && send == nil {
		err = unexpected("message command returned no reply", nil)
	}
	return send, err
}

// userMessage returns what the user should be told about err. Failures the user did not
// cause are logged and replaced with failure.
func userMessage(err error, failure string, attrs ...any) string {
	var e *Error
	if errors.As(err, &e) && e.UserFacing() {
		return e.Message
	}
	slog.Error("command failed", append(attrs, "kind", KindOf(err).String(), "error", err)...)
	return failure
}

// recoverHandler keeps a panicking event handler from taking the process down.
// It must be deferred directly.
func recoverHandler(event string, attrs ...any) {
	r := recover()
	if r == nil {
		return
	}
	err := &Error{Kind: ErrorKindUnhandled, Err: fmt.Errorf("panic: %v", r)}
	slog.Error("unhandled failure in event handler",
		append([]any{"event", event, "error", err, "stack", string(debug.Stack())}, attrs...)...)
}

// Close gracefully stops the schedule manager and closes the Discord session.
func (b *Bot) Close() error {
	slog.Info("shutting down bot")

	if b.scheduleManager != nil {
		b.scheduleManager.stop()
	}

	return b.session.Close()
}
