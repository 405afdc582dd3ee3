package classify

import (
	"testing"

	"github.com/minhpq/reddit-mirror-bot/internal/domain"
)

func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		name string
		post *domain.Post
		want Kind
	}{
		{
			name: "poll wins over everything",
			post: &domain.Post{
				Poll:    &domain.Poll{Options: []string{"a", "b"}, TotalVotes: -1},
				IsVideo: true,
				URL:     "https://i.redd.it/x.jpg",
			},
			want: KindPoll,
		},
		{
			name: "native video from media container",
			post: &domain.Post{
				Video: &domain.Video{FallbackURL: "https://v.redd.it/abc/DASH_720.mp4"},
				URL:   "https://v.redd.it/abc",
			},
			want: KindNativeVideo,
		},
		{
			name: "native video from preview block",
			post: &domain.Post{
				VideoPreview: &domain.Video{FallbackURL: "https://v.redd.it/def/DASH_480.mp4"},
				URL:          "https://www.redgifs.com/watch/xyz",
			},
			want: KindNativeVideo,
		},
		{
			name: "native video beats embedded player links",
			post: &domain.Post{
				Video:        &domain.Video{FallbackURL: "https://v.redd.it/abc/DASH_720.mp4"},
				HasBodyVideo: true,
				Body:         "https://reddit.com/link/p1/video/v1/player",
			},
			want: KindNativeVideo,
		},
		{
			name: "embedded video needs metadata and a player link",
			post: &domain.Post{
				IsSelf:       true,
				HasBodyVideo: true,
				Body:         "look https://reddit.com/link/p1/video/v1/player",
			},
			want: KindEmbeddedVideo,
		},
		{
			name: "metadata without player link is not embedded",
			post: &domain.Post{
				IsSelf:       true,
				HasBodyVideo: true,
				Body:         "no links here",
			},
			want: KindText,
		},
		{
			name: "youtube link",
			post: &domain.Post{URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
			want: KindExternalVideo,
		},
		{
			name: "youtu.be short link",
			post: &domain.Post{URL: "https://youtu.be/dQw4w9WgXcQ"},
			want: KindExternalVideo,
		},
		{
			name: "gallery flag",
			post: &domain.Post{
				IsGallery: true,
				Gallery:   []domain.MediaItem{{ID: "m1", URL: "https://i.redd.it/m1.jpg"}},
				URL:       "https://www.reddit.com/gallery/p1",
			},
			want: KindGallery,
		},
		{
			name: "direct image url",
			post: &domain.Post{URL: "https://i.redd.it/pic.jpg"},
			want: KindSingleImage,
		},
		{
			name: "image url with query string",
			post: &domain.Post{URL: "https://i.imgur.com/pic.png?cb=1"},
			want: KindSingleImage,
		},
		{
			name: "link with preview image",
			post: &domain.Post{
				URL:     "https://example.com/article",
				Preview: "https://i.redd.it/preview.jpg",
			},
			want: KindSingleImage,
		},
		{
			name: "self post",
			post: &domain.Post{IsSelf: true, Body: "hello"},
			want: KindText,
		},
		{
			name: "bare link",
			post: &domain.Post{URL: "https://example.com/story"},
			want: KindLink,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.post); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyCrosspostUsesOrigin(t *testing.T) {
	post := &domain.Post{
		ID:     "wrapper",
		IsSelf: true,
		Body:   "shared this",
		Crosspost: &domain.Post{
			ID:    "origin",
			Video: &domain.Video{FallbackURL: "https://v.redd.it/abc/DASH_720.mp4"},
		},
	}

	if got := Classify(post); got != KindNativeVideo {
		t.Errorf("Classify() = %v, want %v", got, KindNativeVideo)
	}
}

func TestPlayerLinks(t *testing.T) {
	body := "first https://reddit.com/link/p1/video/v1/player and " +
		"second https://reddit.com/link/p1/video/v2/player done"

	links := PlayerLinks(body)
	if len(links) != 2 {
		t.Fatalf("PlayerLinks() returned %d links, want 2", len(links))
	}
	if links[0] != "https://reddit.com/link/p1/video/v1/player" {
		t.Errorf("unexpected first link: %s", links[0])
	}
}

func TestIsGalleryLink(t *testing.T) {
	if !IsGalleryLink("https://www.reddit.com/gallery/abc") {
		t.Error("gallery URL not recognized")
	}
	if IsGalleryLink("https://example.com/page") {
		t.Error("plain URL misread as gallery")
	}
}
