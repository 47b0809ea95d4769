package discord

import "github.com/bwmarrin/discordgo"

// Session is the part of *discordgo.Session the bot talks to.
type Session interface {
	Open() error
	Close() error
	AddHandler(handler interface{}) func()

	ApplicationCommandBulkOverwrite(
		appID string,
		guildID string,
		commands []*discordgo.ApplicationCommand,
		options ...discordgo.RequestOption,
	) ([]*discordgo.ApplicationCommand, error)

	InteractionRespond(
		interaction *discordgo.Interaction,
		resp *discordgo.InteractionResponse,
		options ...discordgo.RequestOption,
	) error

	ChannelMessageSendComplex(
		channelID string,
		data *discordgo.MessageSend,
		options ...discordgo.RequestOption,
	) (*discordgo.Message, error)

	UpdateWatchStatus(idle int, name string) error
}

var _ Session = (*discordgo.Session)(nil)
