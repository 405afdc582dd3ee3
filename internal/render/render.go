package render

import (
	"strconv"
	"strings"
	"time"

	"github.com/minhpq/reddit-mirror-bot/internal/classify"
	"github.com/minhpq/reddit-mirror-bot/internal/domain"
	"github.com/minhpq/reddit-mirror-bot/internal/repositories/buttonvisibility"
	"github.com/minhpq/reddit-mirror-bot/internal/youtube"
	"github.com/minhpq/reddit-mirror-bot/pkg/formatter"
	"github.com/samber/lo"
)

const (
	// TitleBudget is the character budget of a rendered title.
	TitleBudget = 256
	// ThreadTitleBudget is the character budget of a forum topic name.
	ThreadTitleBudget = 100
	// BodyBudget is the character budget of a rendered body excerpt.
	BodyBudget = 4000

	// MaxInlineBytes is the ceiling above which media is never inlined,
	// independent of what the destination itself would accept.
	MaxInlineBytes = 24 * 1024 * 1024

	// maxUnixSeconds is the last Unix-seconds instant of year 9999; poll
	// end timestamps above it are milliseconds.
	maxUnixSeconds = 253402300799

	// PlaceholderImage backs any variant that resolved no image of its own.
	PlaceholderImage = "https://www.redditstatic.com/desktop2x/img/favicon/android-icon-512x512.png"

	nativeVideoNote = "This type of Reddit video(s) can only be viewed online or via the Reddit App."
	uploadLimitNote = "Due to upload limits, you'll need to view this video on Reddit or via the Reddit App using the link provided."
	oversizedNote   = "This GIF may have exceeded the upload size limit, but should be viewable via this link if the direct embed does not work:"
)

// Input carries everything a render needs; the function itself performs no
// I/O. Network-derived data (byte sizes, the external video title) is
// resolved by the caller beforehand.
type Input struct {
	Post *domain.Post
	Kind classify.Kind
	Caps domain.Capabilities

	// Buttons maps label to visibility; labels absent from the map show.
	Buttons map[string]bool

	// External video metadata, resolved ahead of time for ExternalVideo.
	VideoTitle     string
	VideoThumbnail string

	Now time.Time
}

// Render maps one classified post to its ordered send units.
func Render(in Input) []domain.SendUnit {
	if in.Now.IsZero() {
		in.Now = time.Now().UTC()
	}

	switch in.Kind {
	case classify.KindPoll:
		return renderPoll(in)
	case classify.KindNativeVideo:
		return renderNativeVideo(in)
	case classify.KindEmbeddedVideo:
		return renderEmbeddedVideo(in)
	case classify.KindExternalVideo:
		return renderExternalVideo(in)
	case classify.KindGallery:
		return renderGallery(in)
	case classify.KindSingleImage:
		return renderSingleImage(in)
	case classify.KindText:
		return renderText(in)
	default:
		return renderLink(in)
	}
}

// ThreadName clips a post title to the forum topic budget.
func ThreadName(post *domain.Post) string {
	return formatter.Truncate(post.Title, ThreadTitleBudget)
}

func permalink(p *domain.Post) string {
	return "https://www.reddit.com" + p.Permalink
}

func renderPoll(in Input) []domain.SendUnit {
	p := in.Post
	o := p.Origin()

	msg := newPrimary(in)
	playerLinks := classify.PlayerLinks(o.Body)
	if body := CleanVideoBody(CleanBody(o.Body), playerLinks); body != "" {
		msg.body(body)
	}

	var options []string
	for i, opt := range o.Poll.Options {
		options = append(options, strconv.Itoa(i+1)+". "+opt)
	}
	msg.field("Poll Options", strings.Join(options, "\n"))

	if o.Poll.EndTimestamp != 0 {
		if left, running := countdown(o.Poll.EndTimestamp, in.Now); running {
			msg.field("Poll Ends", "In "+left)
		} else {
			msg.field("Poll Status", "Poll has ended")
		}
	}
	if o.Poll.TotalVotes >= 0 {
		msg.field("Total Votes", formatter.FormatNumber(o.Poll.TotalVotes))
	}

	if len(playerLinks) > 0 {
		msg.field("Reddit Video", nativeVideoNote)
		msg.linkField("Video Link(s)", strings.Join(playerLinks, "\n"))
		msg.finish(p, "Poll")
		return []domain.SendUnit{{
			Text: msg.text(),
			Buttons: buttons(in,
				buttonSpec{buttonvisibility.LabelRedditPost, permalink(p)},
				buttonSpec{buttonvisibility.LabelWatchVideo, playerLinks[0]},
			),
		}}
	}

	msg.finish(p, "Poll")
	postButtons := buttons(in, buttonSpec{buttonvisibility.LabelRedditPost, permalink(p)})

	if len(o.BodyMedia) > 0 {
		units := []domain.SendUnit{{Text: msg.text()}}
		units = append(units, mediaUnits(in, o.BodyMedia)...)
		return attachToLast(units, postButtons)
	}

	return []domain.SendUnit{{Text: msg.text(), Buttons: postButtons}}
}

func renderNativeVideo(in Input) []domain.SendUnit {
	p := in.Post
	o := p.Origin()

	video := o.Video
	if video == nil {
		video = o.VideoPreview
	}

	msg := newPrimary(in)
	if body := CleanBody(o.Body); body != "" {
		msg.body(body)
	}

	postButton := buttonSpec{buttonvisibility.LabelRedditPost, permalink(p)}

	if video != nil && video.ByteSize > 0 && video.ByteSize <= MaxInlineBytes && video.ByteSize <= in.Caps.PayloadCeiling {
		msg.finish(p, "")
		primary := domain.SendUnit{Text: msg.text(), ImageURL: firstNonEmpty(o.Preview, o.Thumbnail)}
		videoUnit := domain.SendUnit{
			VideoURL: video.FallbackURL,
			Buttons: buttons(in, postButton,
				buttonSpec{buttonvisibility.LabelWatchVideo, video.FallbackURL}),
		}
		return []domain.SendUnit{primary, videoUnit}
	}

	// Too large or unsized: never uploaded, link-only fallback.
	unit := domain.SendUnit{ImageURL: fallbackImage(in, o.Preview, o.Thumbnail)}
	specs := []buttonSpec{postButton}
	if video != nil {
		msg.linkField("Reddit Video", video.FallbackURL)
		msg.field("Note", uploadLimitNote)
		specs = append(specs, buttonSpec{buttonvisibility.LabelWatchVideo, video.FallbackURL})
	}
	msg.finish(p, "")
	unit.Text = msg.text()
	unit.Buttons = buttons(in, specs...)
	return []domain.SendUnit{unit}
}

func renderEmbeddedVideo(in Input) []domain.SendUnit {
	p := in.Post
	o := p.Origin()

	playerLinks := classify.PlayerLinks(o.Body)

	msg := newPrimary(in)
	if body := CleanVideoBody(o.Body, playerLinks); body != "" {
		msg.body(CleanBody(body))
	}
	msg.field("Reddit Video", nativeVideoNote)
	msg.linkField("Video Link(s)", strings.Join(playerLinks, "\n"))
	msg.finish(p, "")

	return []domain.SendUnit{{
		Text: msg.text(),
		Buttons: buttons(in,
			buttonSpec{buttonvisibility.LabelRedditPost, permalink(p)},
			buttonSpec{buttonvisibility.LabelWatchVideo, playerLinks[0]},
		),
	}}
}

func renderExternalVideo(in Input) []domain.SendUnit {
	p := in.Post
	o := p.Origin()

	videoID := youtube.ExtractVideoID(o.URL)
	watchURL := youtube.WatchURL(videoID)

	title := in.VideoTitle
	if title == "" {
		title = "YouTube Video"
	}

	msg := newPrimary(in)
	if body := CleanBody(o.Body); body != "" {
		msg.body(body)
	}
	msg.linkField(title, watchURL)
	msg.finish(p, "")

	return []domain.SendUnit{{
		Text:     msg.text(),
		ImageURL: firstNonEmpty(in.VideoThumbnail, youtube.ThumbnailURL(videoID)),
		Buttons: buttons(in,
			buttonSpec{buttonvisibility.LabelRedditPost, permalink(p)},
			buttonSpec{buttonvisibility.LabelYouTubeLink, watchURL},
		),
	}}
}

func renderGallery(in Input) []domain.SendUnit {
	p := in.Post
	o := p.Origin()

	msg := newPrimary(in)
	if body := CleanBody(o.Body); body != "" {
		msg.body(body)
	}

	count := len(o.Gallery)
	msg.field("Image Gallery", "This Reddit Post contains "+formatter.FormatNumber(count)+" image"+plural(count))
	msg.linkField("Gallery Link", o.URL)
	msg.finish(p, "")

	units := []domain.SendUnit{{Text: msg.text()}}
	units = append(units, mediaUnits(in, o.Gallery)...)

	return attachToLast(units, buttons(in,
		buttonSpec{buttonvisibility.LabelRedditPost, permalink(p)},
		buttonSpec{buttonvisibility.LabelImageGallery, o.URL},
	))
}

func renderSingleImage(in Input) []domain.SendUnit {
	p := in.Post
	o := p.Origin()

	msg := newPrimary(in)
	if body := CleanBody(o.Body); body != "" {
		msg.body(body)
	}
	msg.finish(p, "")

	return []domain.SendUnit{{
		Text:     msg.text(),
		ImageURL: fallbackImage(in, directImageURL(o), o.PreviewGIF, o.Preview),
		Buttons:  buttons(in, buttonSpec{buttonvisibility.LabelRedditPost, permalink(p)}),
	}}
}

func renderText(in Input) []domain.SendUnit {
	p := in.Post
	o := p.Origin()

	msg := newPrimary(in)
	if body := CleanBody(o.Body); body != "" {
		msg.body(body)
	}

	count := len(o.BodyMedia)
	if count > 0 {
		name := "Reddit Image"
		if count != 1 {
			name = "Reddit Images"
		}
		msg.field(name, "This post contains "+formatter.FormatNumber(count)+" image"+plural(count)+".")
	}
	msg.finish(p, "")

	postButtons := buttons(in, buttonSpec{buttonvisibility.LabelRedditPost, permalink(p)})

	if count == 0 {
		return []domain.SendUnit{{Text: msg.text(), Buttons: postButtons}}
	}

	units := []domain.SendUnit{{Text: msg.text()}}
	units = append(units, mediaUnits(in, o.BodyMedia)...)
	return attachToLast(units, postButtons)
}

func renderLink(in Input) []domain.SendUnit {
	p := in.Post
	o := p.Origin()

	msg := newPrimary(in)
	if body := CleanBody(o.Body); body != "" {
		msg.body(body)
	}

	specs := []buttonSpec{{buttonvisibility.LabelRedditPost, permalink(p)}}
	if classify.IsGalleryLink(o.URL) {
		msg.linkField("Image Gallery Link", o.URL)
		specs = append(specs, buttonSpec{buttonvisibility.LabelImageGallery, o.URL})
	} else {
		msg.linkField("Link", o.URL)
		specs = append(specs, buttonSpec{buttonvisibility.LabelWebLink, o.URL})
	}
	msg.finish(p, "")

	return []domain.SendUnit{{Text: msg.text(), Buttons: buttons(in, specs...)}}
}

// newPrimary starts the primary message with title and byline, always from
// the post itself, never the crosspost origin.
func newPrimary(in Input) *message {
	msg := &message{}
	msg.title(in.Post.Title, permalink(in.Post))
	msg.byline(in.Post.Author)
	return msg
}

type buttonSpec struct {
	label string
	url   string
}

// buttons builds the inline buttons the destination supports and the
// visibility settings allow.
func buttons(in Input, specs ...buttonSpec) []domain.Button {
	if !in.Caps.SupportsButtons {
		return nil
	}
	var out []domain.Button
	for _, spec := range specs {
		if visible, ok := in.Buttons[spec.label]; ok && !visible {
			continue
		}
		out = append(out, domain.Button{Label: spec.label, URL: ensureValidURL(spec.url)})
	}
	return out
}

// mediaUnits turns media items into oversized-GIF embeds followed by
// attachment batches. Oversized items are never inlined.
func mediaUnits(in Input, media []domain.MediaItem) []domain.SendUnit {
	var inline, oversized []domain.MediaItem
	for _, item := range media {
		if item.ByteSize > MaxInlineBytes {
			oversized = append(oversized, item)
		} else {
			inline = append(inline, item)
		}
	}

	var units []domain.SendUnit
	for _, gif := range oversized {
		msg := &message{}
		msg.linkField("Oversized GIF", oversizedNote+"\n"+gif.URL)
		units = append(units, domain.SendUnit{Text: msg.text(), ImageURL: gif.URL})
	}

	batchSize := in.Caps.AttachmentBatchSize
	if batchSize <= 0 {
		batchSize = 10
	}
	for _, batch := range lo.Chunk(inline, batchSize) {
		units = append(units, domain.SendUnit{Attachments: batch})
	}
	return units
}

// attachToLast puts the buttons on the final unit, or on the primary when
// it is the only one.
func attachToLast(units []domain.SendUnit, btns []domain.Button) []domain.SendUnit {
	if len(btns) > 0 && len(units) > 0 {
		units[len(units)-1].Buttons = btns
	}
	return units
}

// fallbackImage picks the first resolvable image, then the author icon,
// then the fixed placeholder.
func fallbackImage(in Input, candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	if in.Post.AuthorIcon != "" {
		return in.Post.AuthorIcon
	}
	return PlaceholderImage
}

func directImageURL(p *domain.Post) string {
	lower := strings.ToLower(p.URL)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif"} {
		if strings.HasSuffix(lower, ext) {
			return p.URL
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func plural(n int) string {
	if n != 1 {
		return "s"
	}
	return ""
}
