package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func TestPrettyHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewUTCPrettyHandler(&buf, PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{Level: slog.LevelInfo},
	}))

	logger.With("command", "proof").WithGroup("req").Info("proof submitted", "error", errors.New("boom"))
	logger.Debug("hidden")

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "\n"), out)
	assert.Contains(t, out, "INFO proof submitted")
	assert.Contains(t, out, `"command":"proof"`)
	assert.Contains(t, out, `"req.error":"boom"`)
	assert.Contains(t, out, "+0000 UTC]")
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewHandler(t *testing.T) {
	var buf bytes.Buffer

	h, err := NewHandler(&buf, FormatPretty, slog.LevelInfo)
	require.NoError(t, err)
	assert.IsType(t, &PrettyHandler{}, h)

	h, err = NewHandler(&buf, FormatJSON, slog.LevelInfo)
	require.NoError(t, err)
	slog.New(h).Info("hello", "n", 1)
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	h, err = NewHandler(&buf, FormatTint, slog.LevelInfo)
	require.NoError(t, err)
	slog.New(h).Info("tinted")
	assert.Contains(t, buf.String(), "tinted")

	_, err = NewHandler(&buf, "xml", slog.LevelInfo)
	assert.Error(t, err)
}

func TestDiscordgoLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	DiscordgoLogger(logger)(discordgo.LogWarning, 0, "heartbeat %d\nmissed", 3)

	out := buf.String()
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"msg":"heartbeat 3 missed"`)
	assert.Contains(t, out, `"component":"discordgo"`)
}

func TestPrettyHandlerTimeZone(t *testing.T) {
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, PrettyHandlerOptions{TimeZone: time.FixedZone("AEDT", 11*60*60)})

	slog.New(h).Info("zoned")
	assert.Contains(t, buf.String(), "+1100 AEDT]")
}
