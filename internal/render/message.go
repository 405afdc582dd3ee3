package render

import (
	"strings"
	"time"

	"github.com/minhpq/reddit-mirror-bot/internal/domain"
	"github.com/minhpq/reddit-mirror-bot/pkg/formatter"
)

const deletedAuthor = "[deleted]"

// message accumulates the MarkdownV2 text of a primary send unit. Fields
// append in call order; the crosspost reference and footer always come last
// so provenance reads as provenance.
type message struct {
	lines []string
}

func (m *message) title(title, url string) {
	clipped := formatter.Truncate(title, TitleBudget)
	m.lines = append(m.lines, "*["+formatter.EscapeMarkdownV2(clipped)+"]("+escapeLinkURL(url)+")*")
}

func (m *message) byline(author string) {
	if author == "" {
		author = deletedAuthor
	}
	if author == deletedAuthor {
		m.lines = append(m.lines, formatter.EscapeMarkdownV2(deletedAuthor))
		return
	}
	profile := "https://www.reddit.com/user/" + author
	m.lines = append(m.lines, "by [u/"+formatter.EscapeMarkdownV2(author)+"]("+escapeLinkURL(profile)+")")
}

func (m *message) body(body string) {
	if body == "" {
		return
	}
	m.lines = append(m.lines, "", formatter.EscapeMarkdownV2(formatter.Truncate(body, BodyBudget)))
}

func (m *message) field(name, value string) {
	m.lines = append(m.lines, "", "*"+formatter.EscapeMarkdownV2(name)+":* "+formatter.EscapeMarkdownV2(value))
}

// linkField renders a field whose value is a URL; URLs stay clickable when
// left unescaped as a bare entity.
func (m *message) linkField(name, url string) {
	m.lines = append(m.lines, "", "*"+formatter.EscapeMarkdownV2(name)+":* "+formatter.EscapeMarkdownV2(url))
}

// finish appends the trailing crosspost reference, when post re-shares
// another, and the footer. Always the last two lines of a primary message.
func (m *message) finish(post *domain.Post, footerSuffix string) {
	if post.Crosspost != nil {
		originURL := "https://www.reddit.com/r/" + post.Crosspost.Subreddit
		m.lines = append(m.lines, "",
			"*Crosspost:* [r/"+formatter.EscapeMarkdownV2(post.Crosspost.Subreddit)+"]("+escapeLinkURL(originURL)+")")
	}

	footer := "r/" + post.Subreddit
	if footerSuffix != "" {
		footer += " | " + footerSuffix
	}
	footer += " | " + post.CreatedAt.UTC().Format("Jan 2, 2006 15:04 MST")
	m.lines = append(m.lines, "", "_"+formatter.EscapeMarkdownV2(footer)+"_")
}

func (m *message) text() string {
	return strings.Join(m.lines, "\n")
}

// escapeLinkURL escapes only what MarkdownV2 requires inside the (...) of
// an inline link.
func escapeLinkURL(url string) string {
	url = strings.ReplaceAll(url, `\`, `\\`)
	return strings.ReplaceAll(url, `)`, `\)`)
}

// ensureValidURL normalizes the scheme-relative and site-relative URLs the
// listing API hands out.
func ensureValidURL(url string) string {
	switch {
	case strings.HasPrefix(url, "//"):
		return "https:" + url
	case strings.HasPrefix(url, "/"):
		return "https://www.reddit.com" + url
	case !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://"):
		return "https://" + url
	}
	return url
}

// countdown renders the time remaining until a poll closes. The end
// timestamp may arrive in seconds or milliseconds; anything past the last
// representable Unix-seconds instant is taken as milliseconds.
func countdown(endTimestamp int64, now time.Time) (string, bool) {
	if endTimestamp > maxUnixSeconds {
		endTimestamp /= 1000
	}

	remaining := time.Unix(endTimestamp, 0).UTC().Sub(now)
	if remaining <= 0 {
		return "", false
	}

	days := int(remaining.Hours()) / 24
	hours := int(remaining.Hours()) % 24
	minutes := int(remaining.Minutes()) % 60
	return formatPlural(days, "day") + ", " + formatPlural(hours, "hour") + ", " + formatPlural(minutes, "minute"), true
}

func formatPlural(n int, unit string) string {
	s := formatter.FormatNumber(n) + " " + unit
	if n != 1 {
		s += "s"
	}
	return s
}
