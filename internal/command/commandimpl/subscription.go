package commandimpl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/minhpq/reddit-mirror-bot/internal/domain"
	"github.com/minhpq/reddit-mirror-bot/internal/repositories/subscription"
)

func (c *CommandImpl) handleSubscribe(ctx context.Context, chatID int64, args string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		c.Telegram.SendPlainMessage(chatID, "Please name a subreddit. Example: /subscribe golang")
		return
	}

	subreddit := subscription.SanitizeSubreddit(fields[0])
	if subreddit == "" {
		c.Telegram.SendPlainMessage(chatID, "That does not look like a subreddit name.")
		return
	}

	perPost := len(fields) > 1 && strings.EqualFold(fields[1], "perpost")

	sub := domain.Subscription{
		Subreddit:     subreddit,
		ChatID:        chatID,
		PerPostThread: perPost,
	}

	if err := c.SubscriptionRepo.Create(ctx, sub); err != nil {
		if errors.Is(err, subscription.ErrAlreadyExists) {
			c.Telegram.SendPlainMessage(chatID, fmt.Sprintf("This chat already mirrors r/%s.", subreddit))
		} else {
			c.Logger.Error("Failed to create subscription", "subreddit", subreddit, "chat_id", chatID, "error", err)
			c.Telegram.SendPlainMessage(chatID, "Something went wrong. Please try again later.")
		}
		return
	}

	c.Telegram.SendPlainMessage(chatID, fmt.Sprintf("Subscribed! New posts from r/%s will show up here.", subreddit))
}

func (c *CommandImpl) handleUnsubscribe(ctx context.Context, chatID int64, args string) {
	subreddit := subscription.SanitizeSubreddit(args)
	if subreddit == "" {
		c.Telegram.SendPlainMessage(chatID, "Please name a subreddit. Example: /unsubscribe golang")
		return
	}

	if err := c.SubscriptionRepo.Delete(ctx, subreddit, chatID, 0); err != nil {
		if errors.Is(err, subscription.ErrNotFound) {
			c.Telegram.SendPlainMessage(chatID, fmt.Sprintf("This chat does not mirror r/%s.", subreddit))
		} else {
			c.Logger.Error("Failed to delete subscription", "subreddit", subreddit, "chat_id", chatID, "error", err)
			c.Telegram.SendPlainMessage(chatID, "Something went wrong. Please try again later.")
		}
		return
	}

	c.Telegram.SendPlainMessage(chatID, fmt.Sprintf("Stopped mirroring r/%s.", subreddit))
}

func (c *CommandImpl) handleList(ctx context.Context, chatID int64) {
	subs, err := c.SubscriptionRepo.GetByChatID(ctx, chatID)
	if err != nil {
		c.Logger.Error("Failed to get subscriptions", "chat_id", chatID, "error", err)
		c.Telegram.SendPlainMessage(chatID, "Something went wrong while fetching the list.")
		return
	}

	if len(subs) == 0 {
		c.Telegram.SendPlainMessage(chatID, "This chat mirrors no subreddits yet. Use /subscribe to start.")
		return
	}

	var builder strings.Builder
	builder.WriteString("Subreddits mirrored into this chat:\n")
	for i, sub := range subs {
		builder.WriteString(fmt.Sprintf("%d. r/%s", i+1, sub.Subreddit))
		if sub.PerPostThread {
			builder.WriteString(" (topic per post)")
		}
		builder.WriteString("\n")
	}

	c.Telegram.SendPlainMessage(chatID, builder.String())
}
