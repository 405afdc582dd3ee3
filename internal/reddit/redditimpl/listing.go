package redditimpl

import (
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/minhpq/reddit-mirror-bot/internal/domain"
)

type listing struct {
	Data struct {
		Children []struct {
			Data submission `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type submission struct {
	ID         string  `json:"id"`
	Subreddit  string  `json:"subreddit"`
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	CreatedUTC float64 `json:"created_utc"`
	Selftext   string  `json:"selftext"`
	URL        string  `json:"url"`
	Permalink  string  `json:"permalink"`
	Thumbnail  string  `json:"thumbnail"`
	IsSelf     bool    `json:"is_self"`
	IsGallery  bool    `json:"is_gallery"`
	IsVideo    bool    `json:"is_video"`

	PollData *struct {
		Options []struct {
			Text string `json:"text"`
		} `json:"options"`
		VotingEndTimestamp int64 `json:"voting_end_timestamp"`
		TotalVoteCount     *int  `json:"total_vote_count"`
	} `json:"poll_data"`

	Media       *mediaContainer `json:"media"`
	SecureMedia *mediaContainer `json:"secure_media"`

	Preview *struct {
		Images []struct {
			Source   imageSource `json:"source"`
			Variants struct {
				GIF *struct {
					Source imageSource `json:"source"`
				} `json:"gif"`
			} `json:"variants"`
		} `json:"images"`
		RedditVideoPreview *redditVideo `json:"reddit_video_preview"`
	} `json:"preview"`

	GalleryData *struct {
		Items []struct {
			MediaID string `json:"media_id"`
		} `json:"items"`
	} `json:"gallery_data"`

	MediaMetadata map[string]mediaMeta `json:"media_metadata"`

	CrosspostParentList []submission `json:"crosspost_parent_list"`
}

type mediaContainer struct {
	RedditVideo *redditVideo `json:"reddit_video"`
}

type redditVideo struct {
	FallbackURL      string `json:"fallback_url"`
	ScrubberMediaURL string `json:"scrubber_media_url"`
}

type imageSource struct {
	URL string `json:"url"`
}

type mediaMeta struct {
	E string `json:"e"`
	M string `json:"m"`
	S struct {
		U   string `json:"u"`
		GIF string `json:"gif"`
	} `json:"s"`
	P []struct {
		U string `json:"u"`
	} `json:"p"`
}

var bodyImagePattern = regexp.MustCompile(`https?://(?:i\.redd\.it|preview\.redd\.it)/\S+?\.(?:jpg|png|gif)`)

func (s *submission) toDomain() *domain.Post {
	p := &domain.Post{
		ID:        s.ID,
		Subreddit: s.Subreddit,
		Title:     s.Title,
		Author:    s.Author,
		CreatedAt: time.Unix(int64(s.CreatedUTC), 0).UTC(),
		Body:      s.Selftext,
		URL:       s.URL,
		Permalink: s.Permalink,
		IsSelf:    s.IsSelf,
		IsGallery: s.IsGallery,
		IsVideo:   s.IsVideo,
	}

	if s.Thumbnail != "" && s.Thumbnail != "default" && s.Thumbnail != "self" && s.Thumbnail != "nsfw" {
		p.Thumbnail = s.Thumbnail
	}

	if s.PollData != nil {
		poll := &domain.Poll{
			EndTimestamp: s.PollData.VotingEndTimestamp,
			TotalVotes:   -1,
		}
		for _, opt := range s.PollData.Options {
			poll.Options = append(poll.Options, opt.Text)
		}
		if s.PollData.TotalVoteCount != nil {
			poll.TotalVotes = *s.PollData.TotalVoteCount
		}
		p.Poll = poll
	}

	if v := s.redditVideo(); v != nil {
		p.Video = &domain.Video{
			FallbackURL: stripQuery(v.FallbackURL),
			ScrubberURL: v.ScrubberMediaURL,
		}
	}
	if s.Preview != nil && s.Preview.RedditVideoPreview != nil {
		v := s.Preview.RedditVideoPreview
		p.VideoPreview = &domain.Video{
			FallbackURL: stripQuery(v.FallbackURL),
			ScrubberURL: v.ScrubberMediaURL,
		}
	}

	if s.Preview != nil && len(s.Preview.Images) > 0 {
		img := s.Preview.Images[0]
		p.Preview = normalizeImageURL(img.Source.URL)
		if img.Variants.GIF != nil {
			p.PreviewGIF = normalizeImageURL(img.Variants.GIF.Source.URL)
		}
	}

	if s.IsGallery && s.GalleryData != nil {
		for _, item := range s.GalleryData.Items {
			meta, ok := s.MediaMetadata[item.MediaID]
			if !ok || meta.M == "" {
				continue
			}
			ext := meta.M[strings.LastIndex(meta.M, "/")+1:]
			p.Gallery = append(p.Gallery, domain.MediaItem{
				ID:       item.MediaID,
				URL:      "https://i.redd.it/" + item.MediaID + "." + ext,
				Animated: meta.E == "AnimatedImage",
			})
		}
	}

	for _, url := range bodyImagePattern.FindAllString(s.Selftext, -1) {
		p.BodyMedia = append(p.BodyMedia, domain.MediaItem{
			URL:      normalizeImageURL(url),
			Animated: strings.HasSuffix(strings.ToLower(url), ".gif"),
		})
	}

	for _, meta := range s.MediaMetadata {
		if meta.E == "RedditVideo" {
			p.HasBodyVideo = true
			break
		}
	}

	if len(s.CrosspostParentList) > 0 {
		origin := s.CrosspostParentList[0]
		p.Crosspost = origin.toDomain()
	}

	return p
}

func (s *submission) redditVideo() *redditVideo {
	if s.Media != nil && s.Media.RedditVideo != nil {
		return s.Media.RedditVideo
	}
	if s.SecureMedia != nil && s.SecureMedia.RedditVideo != nil {
		return s.SecureMedia.RedditVideo
	}
	return nil
}

func stripQuery(url string) string {
	if i := strings.Index(url, "?"); i >= 0 {
		return url[:i]
	}
	return url
}

// normalizeImageURL unescapes listing-embedded entities and swaps the
// preview host for the direct one.
func normalizeImageURL(url string) string {
	url = html.UnescapeString(url)
	return strings.Replace(url, "preview.redd.it", "i.redd.it", 1)
}
