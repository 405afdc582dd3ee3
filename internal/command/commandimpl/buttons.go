package commandimpl

import (
	"context"
	"fmt"
	"strings"

	"github.com/minhpq/reddit-mirror-bot/internal/repositories/buttonvisibility"
)

var knownLabels = []string{
	buttonvisibility.LabelRedditPost,
	buttonvisibility.LabelWatchVideo,
	buttonvisibility.LabelYouTubeLink,
	buttonvisibility.LabelImageGallery,
	buttonvisibility.LabelWebLink,
}

func (c *CommandImpl) handleButtons(ctx context.Context, chatID int64) {
	visibility, err := c.ButtonRepo.GetAll(ctx)
	if err != nil {
		c.Logger.Error("Failed to get button visibility", "error", err)
		c.Telegram.SendPlainMessage(chatID, "Something went wrong while fetching button settings.")
		return
	}

	var builder strings.Builder
	builder.WriteString("Link buttons on mirrored posts:\n")
	for _, label := range knownLabels {
		state := "shown"
		if visible, ok := visibility[label]; ok && !visible {
			state = "hidden"
		}
		builder.WriteString(fmt.Sprintf("- %s: %s\n", label, state))
	}
	builder.WriteString("\nUse /mute_button <label> or /unmute_button <label> to change one.")

	c.Telegram.SendPlainMessage(chatID, builder.String())
}

func (c *CommandImpl) handleSetButton(ctx context.Context, chatID int64, args string, visible bool) {
	label := matchLabel(args)
	if label == "" {
		c.Telegram.SendPlainMessage(chatID,
			"Unknown button. Known labels: "+strings.Join(knownLabels, ", "))
		return
	}

	if err := c.ButtonRepo.Set(ctx, label, visible); err != nil {
		c.Logger.Error("Failed to update button visibility", "label", label, "error", err)
		c.Telegram.SendPlainMessage(chatID, "Something went wrong. Please try again later.")
		return
	}

	state := "hidden"
	if visible {
		state = "shown"
	}
	c.Telegram.SendPlainMessage(chatID, fmt.Sprintf("The %q button is now %s.", label, state))
}

// matchLabel resolves user input to a known label, ignoring case and
// underscores so "watch_video" works as well as "Watch Video".
func matchLabel(input string) string {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(input), "_", " "))
	for _, label := range knownLabels {
		if strings.ToLower(label) == normalized {
			return label
		}
	}
	return ""
}
