package domain

import "time"

// MediaItem is one image or animated image belonging to a post.
// ByteSize is filled in by the media prober before rendering; zero means
// the size is unknown and the item is treated as within budget.
type MediaItem struct {
	ID       string
	URL      string
	Animated bool
	ByteSize int64
}

// Video is a natively hosted video container.
type Video struct {
	FallbackURL string
	ScrubberURL string
	ByteSize    int64
}

// Poll carries the option labels and optional voting metadata of a poll post.
// EndTimestamp may be expressed in seconds or milliseconds; the renderer
// disambiguates. TotalVotes below zero means the count was not supplied.
type Poll struct {
	Options      []string
	EndTimestamp int64
	TotalVotes   int
}

// Post is an immutable snapshot of one Reddit submission. The media payload
// is a closed union: at most one of Poll, Video, Gallery et al. decides the
// content variant, resolved once by the classifier.
type Post struct {
	ID         string
	Subreddit  string
	Title      string
	Author     string
	AuthorIcon string
	CreatedAt  time.Time
	Body       string
	URL        string
	Permalink  string

	IsSelf    bool
	IsGallery bool
	IsVideo   bool

	Poll         *Poll
	Video        *Video
	VideoPreview *Video
	Gallery      []MediaItem
	BodyMedia    []MediaItem
	HasBodyVideo bool
	Preview      string
	PreviewGIF   string
	Thumbnail    string

	// Crosspost is the origin post when this submission re-shares another;
	// media and body come from it while title/author/timestamp stay ours.
	Crosspost *Post
}

// Origin returns the post whose media and body should be rendered.
func (p *Post) Origin() *Post {
	if p.Crosspost != nil {
		return p.Crosspost
	}
	return p
}
