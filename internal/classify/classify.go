package classify

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/minhpq/reddit-mirror-bot/internal/domain"
	"github.com/minhpq/reddit-mirror-bot/internal/youtube"
)

// Kind is the content variant of a post. Exactly one kind is assigned per
// post; downstream code switches exhaustively over it instead of probing
// optional fields.
type Kind int

const (
	KindPoll Kind = iota
	KindNativeVideo
	KindEmbeddedVideo
	KindExternalVideo
	KindGallery
	KindSingleImage
	KindText
	KindLink
)

func (k Kind) String() string {
	switch k {
	case KindPoll:
		return "poll"
	case KindNativeVideo:
		return "native_video"
	case KindEmbeddedVideo:
		return "embedded_video"
	case KindExternalVideo:
		return "external_video"
	case KindGallery:
		return "gallery"
	case KindSingleImage:
		return "single_image"
	case KindText:
		return "text"
	case KindLink:
		return "link"
	}
	return "unknown"
}

// playerLinkPattern matches the player links Reddit injects into the body
// of posts whose video lives in media_metadata rather than in a media
// container.
var playerLinkPattern = regexp.MustCompile(`https://reddit\.com/link/[^/]+/video/[^/]+/player`)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}

// PlayerLinks returns the embedded video player links found in a post body.
func PlayerLinks(body string) []string {
	return playerLinkPattern.FindAllString(body, -1)
}

// Classify assigns post to exactly one content variant. Priority is fixed:
// a post structurally qualifying for several shapes gets the first match.
// Crossposts classify on the origin's media and body.
func Classify(post *domain.Post) Kind {
	p := post.Origin()

	if p.Poll != nil {
		return KindPoll
	}

	if hasNativeVideo(p) {
		return KindNativeVideo
	}

	if p.HasBodyVideo && len(PlayerLinks(p.Body)) > 0 {
		return KindEmbeddedVideo
	}

	if youtube.ExtractVideoID(p.URL) != "" {
		return KindExternalVideo
	}

	if p.IsGallery {
		return KindGallery
	}

	if isDirectImageURL(p.URL) || (!p.IsSelf && p.Preview != "") {
		return KindSingleImage
	}

	if p.IsSelf {
		return KindText
	}

	return KindLink
}

// hasNativeVideo reports whether a video container is present, either as
// the primary media or as a preview block (redgifs links carry one).
func hasNativeVideo(p *domain.Post) bool {
	if p.Video != nil {
		return true
	}
	if p.VideoPreview != nil {
		return true
	}
	return p.IsVideo
}

// IsGalleryLink reports whether a bare link post points at a gallery page,
// used to pick the button label for link posts.
func IsGalleryLink(rawURL string) bool {
	return strings.Contains(rawURL, "/gallery/")
}

func isDirectImageURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
