package proof

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brensch/proofbot/discord"
)

var (
	member = discord.Invoker{ID: "100", Username: "alice", DisplayName: "Alice"}
	admin  = discord.Invoker{ID: "200", Username: "root", Permissions: discordgo.PermissionAdministrator}
)

// newTestHandler returns a handler with a fixed clock and a counter of embeds built.
func newTestHandler() (*Handler, *int) {
	built := 0
	return &Handler{now: func() time.Time {
		built++
		return submittedAt
	}}, &built
}

func commandData(name string, opts map[string]string) *discordgo.ApplicationCommandInteractionData {
	data := &discordgo.ApplicationCommandInteractionData{
		Name:        name,
		CommandType: discordgo.ChatApplicationCommand,
	}
	for k, v := range opts {
		data.Options = append(data.Options, &discordgo.ApplicationCommandInteractionDataOption{
			Name:  k,
			Type:  discordgo.ApplicationCommandOptionString,
			Value: v,
		})
	}
	return data
}

func TestProofCommand(t *testing.T) {
	h, _ := newTestHandler()
	fn := h.DiscordFunctionProof()

	resp, err := fn.HandleInteraction(member, commandData("proof", map[string]string{
		"video_url":   "https://www.loom.com/share/abc123",
		"description": "Built the login page",
		"client":      "Acme Corp",
	}))
	require.NoError(t, err)

	assert.Equal(t, successMessage, resp.Content)
	assert.Zero(t, resp.Flags)
	require.Len(t, resp.Embeds, 1)
	embed := resp.Embeds[0]
	assert.Equal(t, "Built the login page", embed.Description)
	assert.Equal(t, "Alice", findField(embed, fieldSubmittedBy).Value)
	require.NotNil(t, findField(embed, fieldClient))
	assert.Equal(t, "Acme Corp", findField(embed, fieldClient).Value)
}

func TestProofCommandOptionalOptionsOmitted(t *testing.T) {
	h, _ := newTestHandler()

	resp, err := h.DiscordFunctionProof().HandleInteraction(member, commandData("proof", map[string]string{
		"video_url": "https://loom.com/share/abc123",
	}))
	require.NoError(t, err)

	require.Len(t, resp.Embeds, 1)
	assert.Equal(t, defaultDescription, resp.Embeds[0].Description)
	assert.Nil(t, findField(resp.Embeds[0], fieldClient))
}

func TestProofCommandRejectsInvalidURL(t *testing.T) {
	for _, url := range []string{"not-a-url", "https://loom.com/other", "https://youtube.com/watch?v=1"} {
		t.Run(url, func(t *testing.T) {
			h, built := newTestHandler()

			resp, err := h.DiscordFunctionProof().HandleInteraction(member, commandData("proof", map[string]string{
				"video_url": url,
			}))
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.Equal(t, discord.ErrorKindInvalidInput, discord.KindOf(err))
			assert.Equal(t, invalidURLMessage, err.(*discord.Error).Message)
			assert.Zero(t, *built, "no embed should be built")
		})
	}
}

func TestProofCommandMissingURL(t *testing.T) {
	h, built := newTestHandler()

	_, err := h.DiscordFunctionProof().HandleInteraction(member, commandData("proof", nil))
	assert.Equal(t, discord.ErrorKindInvalidInput, discord.KindOf(err))
	assert.Zero(t, *built)
}

func TestQuickProofCommand(t *testing.T) {
	h, _ := newTestHandler()

	resp, err := h.DiscordFunctionQuickProof().HandleInteraction(admin, commandData("quickproof", map[string]string{
		"video_url": "https://loom.com/share/abc123",
	}))
	require.NoError(t, err)

	assert.Empty(t, resp.Content)
	require.Len(t, resp.Embeds, 1)
	assert.Equal(t, quickProofDescription, resp.Embeds[0].Description)
	assert.Equal(t, "root", findField(resp.Embeds[0], fieldSubmittedBy).Value)
	assert.Nil(t, findField(resp.Embeds[0], fieldClient))
}

func TestQuickProofCommandRequiresAdmin(t *testing.T) {
	h, built := newTestHandler()

	resp, err := h.DiscordFunctionQuickProof().HandleInteraction(member, commandData("quickproof", map[string]string{
		"video_url": "https://loom.com/share/abc123",
	}))
	assert.Nil(t, resp)
	assert.Equal(t, discord.ErrorKindPermissionDenied, discord.KindOf(err))
	assert.Equal(t, adminOnlyMessage, err.(*discord.Error).Message)
	assert.Zero(t, *built, "no embed should be built")
}

func TestQuickProofCommandChecksPermissionBeforeURL(t *testing.T) {
	h, _ := newTestHandler()

	_, err := h.DiscordFunctionQuickProof().HandleInteraction(member, commandData("quickproof", map[string]string{
		"video_url": "not-a-url",
	}))
	assert.Equal(t, discord.ErrorKindPermissionDenied, discord.KindOf(err))

	_, err = h.DiscordFunctionQuickProof().HandleInteraction(admin, commandData("quickproof", map[string]string{
		"video_url": "not-a-url",
	}))
	assert.Equal(t, discord.ErrorKindInvalidInput, discord.KindOf(err))
}

func TestQuickProofCommandRegistration(t *testing.T) {
	h, _ := newTestHandler()

	cmd, err := h.DiscordFunctionQuickProof().ApplicationCommand()
	require.NoError(t, err)

	assert.Equal(t, "quickproof", cmd.Name)
	require.NotNil(t, cmd.DefaultMemberPermissions)
	assert.Equal(t, int64(discordgo.PermissionAdministrator), *cmd.DefaultMemberPermissions)
	require.Len(t, cmd.Options, 1)
	assert.Equal(t, "video_url", cmd.Options[0].Name)
	assert.True(t, cmd.Options[0].Required)
}

func TestProofCommandRegistration(t *testing.T) {
	h, _ := newTestHandler()

	cmd, err := h.DiscordFunctionProof().ApplicationCommand()
	require.NoError(t, err)

	assert.Equal(t, "proof", cmd.Name)
	assert.Equal(t, "Show proof of work with Loom video", cmd.Description)
	assert.Nil(t, cmd.DefaultMemberPermissions)

	require.Len(t, cmd.Options, 3)
	want := []struct {
		name        string
		description string
		required    bool
	}{
		{"video_url", "Loom video URL", true},
		{"description", "Description of the work completed", false},
		{"client", "Client name", false},
	}
	for i, w := range want {
		assert.Equal(t, w.name, cmd.Options[i].Name)
		assert.Equal(t, w.description, cmd.Options[i].Description)
		assert.Equal(t, w.required, cmd.Options[i].Required)
		assert.Equal(t, discordgo.ApplicationCommandOptionString, cmd.Options[i].Type)
	}
}

func TestMessageProof(t *testing.T) {
	h, _ := newTestHandler()
	cmd := h.DiscordMessageProof()

	assert.Equal(t, "!proof ", cmd.GetPrefix())

	send, err := cmd.HandleMessage(member, "https://loom.com/share/xyz789")
	require.NoError(t, err)

	require.Len(t, send.Embeds, 1)
	assert.Equal(t, messageProofDescription, send.Embeds[0].Description)
	assert.Equal(t, "[Watch on Loom](https://loom.com/share/xyz789)", findField(send.Embeds[0], fieldVideoLink).Value)
	assert.Equal(t, "https://cdn.loom.com/sessions/thumbnails/xyz789-with-play.gif", send.Embeds[0].Thumbnail.URL)
}

func TestMessageProofRejects(t *testing.T) {
	for _, args := range []string{"", "https://loom.com/other", "hello"} {
		t.Run(args, func(t *testing.T) {
			h, built := newTestHandler()

			send, err := h.DiscordMessageProof().HandleMessage(member, args)
			assert.Nil(t, send)
			assert.Equal(t, discord.ErrorKindInvalidInput, discord.KindOf(err))
			assert.Equal(t, invalidArgsMessage, err.(*discord.Error).Message)
			assert.Zero(t, *built)
		})
	}
}
