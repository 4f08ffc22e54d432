// Package video rewrites video page URLs into their embeddable form.
package video

import (
	"regexp"
	"strings"
)

var (
	youtubeWatch = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([^&\n?#]+)`)
	vimeoPage    = regexp.MustCompile(`vimeo\.com/(\d+)`)
)

// EmbedURL maps a YouTube watch/short link or a Vimeo link to the URL an
// iframe can load. Embed URLs and unknown formats are returned unchanged.
// The rewrite is purely syntactic.
func EmbedURL(raw string) string {
	if raw == "" {
		return ""
	}
	if m := youtubeWatch.FindStringSubmatch(raw); m != nil {
		return "https://www.youtube.com/embed/" + m[1]
	}
	if strings.Contains(raw, "youtube.com/embed/") {
		return raw
	}
	// player.vimeo.com/video/<id> also matches vimeo\.com/ but not the digits
	// right after it, so it falls through to the pass-through below.
	if m := vimeoPage.FindStringSubmatch(raw); m != nil {
		return "https://player.vimeo.com/video/" + m[1]
	}
	if strings.Contains(raw, "player.vimeo.com") {
		return raw
	}
	return raw
}
