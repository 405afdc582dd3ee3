package render

import (
	"html"
	"regexp"
	"strings"
)

var (
	hostedImageURLPattern = regexp.MustCompile(`https?://(?:preview|i)\.redd\.it/\S+`)
	markdownLinkPattern   = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
	bracketPattern        = regexp.MustCompile(`[\[\]]`)
	trailingParenPattern  = regexp.MustCompile(`(?m)\($`)
	spaceRunPattern       = regexp.MustCompile(` +`)
	blankLineRunPattern   = regexp.MustCompile(`\n\s*\n`)
)

// CleanBody normalizes a post body for display: hosted image URLs are
// stripped, markdown links collapse to the bare URL when the text repeats
// it, leftover brackets go away, HTML entities are unescaped, and runs of
// blank lines collapse to one.
func CleanBody(body string) string {
	cleaned := hostedImageURLPattern.ReplaceAllString(body, "")

	cleaned = markdownLinkPattern.ReplaceAllStringFunc(cleaned, func(match string) string {
		groups := markdownLinkPattern.FindStringSubmatch(match)
		text, url := strings.TrimSpace(groups[1]), strings.TrimSpace(groups[2])
		if text == url {
			return url
		}
		return groups[1] + " " + groups[2]
	})

	cleaned = bracketPattern.ReplaceAllString(cleaned, "")
	cleaned = trailingParenPattern.ReplaceAllString(cleaned, "")
	cleaned = strings.ReplaceAll(cleaned, "&nbsp;", " ")
	cleaned = html.UnescapeString(cleaned)
	cleaned = spaceRunPattern.ReplaceAllString(cleaned, " ")
	cleaned = blankLineRunPattern.ReplaceAllString(cleaned, "\n\n")

	return strings.TrimSpace(cleaned)
}

// CleanVideoBody removes the given player links from a body and drops the
// zero-width placeholder Reddit leaves behind, keeping paragraph breaks.
func CleanVideoBody(body string, videoURLs []string) string {
	for _, url := range videoURLs {
		body = strings.ReplaceAll(body, url, "")
	}

	var lines []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "&#x200B;" {
			continue
		}
		lines = append(lines, line)
	}
	cleaned := strings.Join(lines, "\n\n")
	if cleaned == "" || cleaned == "&#x200B;" {
		return ""
	}
	return cleaned
}
