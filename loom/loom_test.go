package loom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brensch/proofbot/loom"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		wantID string
		wantOK bool
	}{
		{"https share link", "https://loom.com/share/abc123", "abc123", true},
		{"www host", "https://www.loom.com/share/0f9e8d7c6b5a", "0f9e8d7c6b5a", true},
		{"query string is not part of the id", "https://www.loom.com/share/abc123?sid=42", "abc123", true},
		{"dash ends the id", "https://loom.com/share/abc-123", "abc", true},
		{"first match wins", "loom.com/share/first and loom.com/share/second", "first", true},
		{"no scheme", "loom.com/share/XYZ", "XYZ", true},
		{"empty id", "https://loom.com/share/", "", false},
		{"library link", "https://www.loom.com/looms/videos", "", false},
		{"embed link", "https://www.loom.com/embed/abc123", "", false},
		{"token is case sensitive", "https://LOOM.com/share/abc123", "", false},
		{"empty string", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := loom.ExtractVideoID(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestIsValidURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://loom.com/share/abc123", true},
		{"https://www.loom.com/share/xyz789?t=10", true},
		{"https://loom.com/other", false},
		{"https://www.loom.com/looms/videos", false},
		{"not-a-url", false},
		{"https://youtube.com/watch?v=abc123", false},
		{"https://vimeo.com/share/abc123", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, loom.IsValidURL(tt.url))
		})
	}
}

func TestIsValidURLAgreesWithExtract(t *testing.T) {
	for _, id := range []string{"a", "Z", "0", "abc123", "ABCdef0123456789"} {
		url := "https://www.loom.com/share/" + id
		got, ok := loom.ExtractVideoID(url)
		assert.True(t, ok, url)
		assert.Equal(t, id, got)
		assert.True(t, loom.IsValidURL(url), url)
	}
}

func TestThumbnailURL(t *testing.T) {
	assert.Equal(t,
		"https://cdn.loom.com/sessions/thumbnails/abc123-with-play.gif",
		loom.ThumbnailURL("abc123"))
}
