package pollerimpl

import (
	"context"
	"fmt"

	"github.com/go-co-op/gocron/v2"
	"github.com/minhpq/reddit-mirror-bot/internal/telegram"
)

// failedAttemptsThreshold is how many flagged fetch failures a subscription
// accumulates before the cleanup sweep reports it for operator review.
const failedAttemptsThreshold = 3

func (p *PollerImpl) ScheduleCleanup(ctx context.Context) error {
	return p.schedulePeriodic(ctx, "cleanup sweep",
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
		p.runCleanup,
	)
}

// runCleanup deletes subscriptions whose destination is gone and reports
// feed-side failures. A dead subreddit alone never deletes a row; that call
// is the operator's.
func (p *PollerImpl) runCleanup(ctx context.Context) {
	subs, err := p.SubscriptionRepo.GetAll(ctx)
	if err != nil {
		p.Logger.Error("Failed to load subscriptions for cleanup", "error", err)
		return
	}

	removedChats := make(map[int64]struct{})

	for _, sub := range subs {
		if ctx.Err() != nil {
			return
		}

		if sub.FailedAttempts >= failedAttemptsThreshold {
			msg := fmt.Sprintf("Subscription r/%s -> chat %d has %d failed fetches; the subreddit may be gone or private.",
				sub.Subreddit, sub.ChatID, sub.FailedAttempts)
			p.Logger.Warn("Subscription needs review",
				"subreddit", sub.Subreddit, "chat_id", sub.ChatID, "failed_attempts", sub.FailedAttempts)
			p.Telegram.SendMessageToAdmin(msg)
		}

		exists, err := p.Telegram.Resolve(telegram.Target{ChatID: sub.ChatID, ThreadID: sub.ThreadID})
		if err != nil {
			p.Logger.Warn("Could not resolve destination, keeping subscription",
				"chat_id", sub.ChatID, "error", err)
			continue
		}
		if exists {
			continue
		}

		p.Logger.Info("Destination gone, removing subscription",
			"subreddit", sub.Subreddit, "chat_id", sub.ChatID, "thread_id", sub.ThreadID)
		if err := p.SubscriptionRepo.DeleteByID(ctx, sub.ID); err != nil {
			p.Logger.Error("Failed to delete subscription", "id", sub.ID, "error", err)
			continue
		}
		removedChats[sub.ChatID] = struct{}{}
	}

	// Prune cursors only for chats with no surviving subscriptions.
	for chatID := range removedChats {
		remaining, err := p.SubscriptionRepo.GetByChatID(ctx, chatID)
		if err != nil {
			p.Logger.Error("Failed to check remaining subscriptions", "chat_id", chatID, "error", err)
			continue
		}
		if len(remaining) > 0 {
			continue
		}
		deleted, err := p.TrackingRepo.DeleteForChat(ctx, chatID)
		if err != nil {
			p.Logger.Error("Failed to prune tracking rows", "chat_id", chatID, "error", err)
			continue
		}
		if deleted > 0 {
			p.Logger.Info("Pruned tracking rows", "chat_id", chatID, "rows", deleted)
		}
	}
}
