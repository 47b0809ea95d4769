package proof

import (
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/brensch/proofbot/discord"
	"github.com/brensch/proofbot/loom"
)

const (
	// MessagePrefix starts the plain-text form of the proof command. The trailing space is
	// part of the prefix, so a bare "!proof" is ignored.
	MessagePrefix = "!proof "

	quickProofDescription   = "Quick proof of work submission"
	messageProofDescription = "Proof of work submitted via message"

	successMessage      = "✅ Proof of work submitted successfully!"
	invalidURLMessage   = "❌ Please provide a valid Loom video URL (e.g., https://loom.com/share/...)"
	invalidArgsMessage  = "❌ Please provide a valid Loom video URL after the command."
	adminOnlyMessage    = "❌ You need administrator permissions to use this command."
	proofFailure        = "❌ There was an error processing your proof of work. Please try again."
	quickProofFailure   = "❌ There was an error processing your quick proof. Please try again."
	messageProofFailure = "❌ There was an error processing your proof of work."
)

// ProofRequest defines the options of the /proof command.
type ProofRequest struct {
	VideoURL    string `discord:"video_url,description:Loom video URL"`
	Description string `discord:"description,optional,description:Description of the work completed"`
	Client      string `discord:"client,optional,description:Client name"`
}

// QuickProofRequest defines the options of the admin only /quickproof command.
type QuickProofRequest struct {
	VideoURL string `discord:"video_url,description:Loom video URL"`
}

// Handler turns proof commands into embeds.
type Handler struct {
	now func() time.Time
}

// NewHandler creates a Handler stamping submissions with the wall clock.
func NewHandler() *Handler {
	return &Handler{now: time.Now}
}

// DiscordFunctionProof returns the /proof slash command.
func (h *Handler) DiscordFunctionProof() discord.BotFunctionI {
	return discord.NewBotFunction("proof", "Show proof of work with Loom video", h.handleProof,
		discord.WithFailureMessage(proofFailure))
}

// DiscordFunctionQuickProof returns the /quickproof slash command.
func (h *Handler) DiscordFunctionQuickProof() discord.BotFunctionI {
	return discord.NewBotFunction("quickproof", "Quick proof of work (admin only)", h.handleQuickProof,
		discord.WithDefaultMemberPermissions(discordgo.PermissionAdministrator),
		discord.WithFailureMessage(quickProofFailure))
}

// DiscordMessageProof returns the "!proof <url>" fallback command.
func (h *Handler) DiscordMessageProof() discord.MessageCommandI {
	return discord.NewMessageCommand(MessagePrefix, h.handleMessageProof, messageProofFailure)
}

func (h *Handler) handleProof(inv discord.Invoker, req ProofRequest) (*discordgo.InteractionResponseData, error) {
	if !loom.IsValidURL(req.VideoURL) {
		return nil, discord.InvalidInput(invalidURLMessage)
	}

	embed := NewEmbed(h.submission(inv, req.VideoURL, req.Description, req.Client))
	slog.Info("proof submitted", "user", inv.Username, "user_id", inv.ID, "video_url", req.VideoURL)

	return &discordgo.InteractionResponseData{
		Content: successMessage,
		Embeds:  []*discordgo.MessageEmbed{embed},
	}, nil
}

func (h *Handler) handleQuickProof(inv discord.Invoker, req QuickProofRequest) (*discordgo.InteractionResponseData, error) {
	if !inv.IsAdmin() {
		return nil, discord.PermissionDenied(adminOnlyMessage)
	}
	if !loom.IsValidURL(req.VideoURL) {
		return nil, discord.InvalidInput(invalidURLMessage)
	}

	embed := NewEmbed(h.submission(inv, req.VideoURL, quickProofDescription, ""))
	slog.Info("quick proof submitted", "user", inv.Username, "user_id", inv.ID, "video_url", req.VideoURL)

	return &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
	}, nil
}

func (h *Handler) handleMessageProof(inv discord.Invoker, videoURL string) (*discordgo.MessageSend, error) {
	if videoURL == "" || !loom.IsValidURL(videoURL) {
		return nil, discord.InvalidInput(invalidArgsMessage)
	}

	embed := NewEmbed(h.submission(inv, videoURL, messageProofDescription, ""))
	slog.Info("proof submitted via message", "user", inv.Username, "user_id", inv.ID, "video_url", videoURL)

	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
	}, nil
}

func (h *Handler) submission(inv discord.Invoker, videoURL, description, client string) Submission {
	return Submission{
		VideoURL:    videoURL,
		Description: description,
		Client:      client,
		SubmittedBy: Submitter{DisplayName: inv.DisplayName, Username: inv.Username},
		SubmittedAt: h.now(),
	}
}
