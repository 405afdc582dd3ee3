package youtube

import (
	"context"
	"net/url"
	"strings"
)

// ExtractVideoID pulls the video id out of a youtube.com or youtu.be URL.
// Returns the empty string when the URL is not a recognizable video link.
func ExtractVideoID(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	switch host {
	case "youtu.be":
		return strings.TrimPrefix(u.Path, "/")
	case "youtube.com":
		return u.Query().Get("v")
	}
	return ""
}

// WatchURL returns the canonical watch URL for a video id.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// ThumbnailURL returns the high resolution thumbnail for a video id.
func ThumbnailURL(videoID string) string {
	return "https://img.youtube.com/vi/" + videoID + "/maxresdefault.jpg"
}

// Client resolves video titles and thumbnails through the oEmbed endpoint.
//
//go:generate go run go.uber.org/mock/mockgen -source=youtube.go -destination=mocks/mock.go
type Client interface {
	// Lookup returns the video title and thumbnail URL. Failures degrade
	// to a generic title instead of an error.
	Lookup(ctx context.Context, videoID string) (title, thumbnail string)
}
