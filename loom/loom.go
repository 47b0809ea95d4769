// Package loom recognises Loom share links and derives the assets Discord can preview.
package loom

import (
	"fmt"
	"regexp"
	"strings"
)

const thumbnailURLFormat = "https://cdn.loom.com/sessions/thumbnails/%s-with-play.gif"

// shareLinkPattern matches the share-link shape only. Library and embed URLs are not accepted.
var shareLinkPattern = regexp.MustCompile(`loom\.com/share/([a-zA-Z0-9]+)`)

// ExtractVideoID returns the id following the first "loom.com/share/" in url.
func ExtractVideoID(url string) (string, bool) {
	match := shareLinkPattern.FindStringSubmatch(url)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// IsValidURL reports whether url is a Loom share link.
func IsValidURL(url string) bool {
	if !strings.Contains(url, "loom.com") {
		return false
	}
	_, ok := ExtractVideoID(url)
	return ok
}

// ThumbnailURL returns the animated preview for a video id.
func ThumbnailURL(videoID string) string {
	return fmt.Sprintf(thumbnailURLFormat, videoID)
}
