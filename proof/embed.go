// Package proof renders proof-of-work submissions and wires them to the bot's commands.
package proof

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/brensch/proofbot/loom"
)

const (
	embedTitle         = "🎬 Proof of Work Submitted"
	defaultDescription = "Work completed - video demonstration attached"
	embedColor         = 0x6366f1
	footerText         = "Proof of Work System"

	fieldSubmittedBy = "👤 Submitted by"
	fieldSubmittedAt = "🕐 Submitted at"
	fieldVideoLink   = "🎥 Video Link"
	fieldClient      = "🏢 Client"
)

// Submitter is the account a proof is credited to.
type Submitter struct {
	DisplayName string
	Username    string
}

// Name prefers the display name and falls back to the account name.
func (s Submitter) Name() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Username
}

// Submission is a single proof of work. It lives only as long as the reply that carries it.
type Submission struct {
	VideoURL    string
	Description string
	Client      string
	SubmittedBy Submitter
	SubmittedAt time.Time
}

// NewEmbed renders s. The video URL is assumed to have been validated already.
func NewEmbed(s Submission) *discordgo.MessageEmbed {
	description := s.Description
	if description == "" {
		description = defaultDescription
	}

	embed := &discordgo.MessageEmbed{
		Title:       embedTitle,
		Description: description,
		Color:       embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: fieldSubmittedBy, Value: s.SubmittedBy.Name(), Inline: true},
			// Discord renders <t:unix:F> in each viewer's own timezone.
			{Name: fieldSubmittedAt, Value: fmt.Sprintf("<t:%d:F>", s.SubmittedAt.Unix()), Inline: true},
			{Name: fieldVideoLink, Value: fmt.Sprintf("[Watch on Loom](%s)", s.VideoURL)},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: footerText,
		},
		Timestamp: s.SubmittedAt.Format(time.RFC3339),
	}

	if s.Client != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: fieldClient, Value: s.Client, Inline: true})
	}

	if videoID, ok := loom.ExtractVideoID(s.VideoURL); ok {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: loom.ThumbnailURL(videoID)}
	}

	return embed
}
