package discord

import (
	"github.com/bwmarrin/discordgo"
)

// respond sends the initial response to an interaction. Send failures come back as unexpected errors.
func (b *Bot) respond(i *discordgo.Interaction, data *discordgo.InteractionResponseData) error {
	err := b.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		return unexpected("responding to interaction", err)
	}
	return nil
}

// respondEphemeral answers an interaction with text only the invoking user can see.
func (b *Bot) respondEphemeral(i *discordgo.Interaction, content string) error {
	return b.respond(i, &discordgo.InteractionResponseData{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}

// reply sends msg to the channel of m as a reply to it.
func (b *Bot) reply(m *discordgo.Message, msg *discordgo.MessageSend) error {
	msg.Reference = m.Reference()
	_, err := b.session.ChannelMessageSendComplex(m.ChannelID, msg)
	if err != nil {
		return unexpected("replying to message", err)
	}
	return nil
}

// replyText replies to m with plain text.
func (b *Bot) replyText(m *discordgo.Message, content string) error {
	return b.reply(m, &discordgo.MessageSend{Content: content})
}
