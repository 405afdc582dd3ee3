package pollerimpl

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/minhpq/reddit-mirror-bot/internal/classify"
	"github.com/minhpq/reddit-mirror-bot/internal/domain"
	"github.com/minhpq/reddit-mirror-bot/internal/render"
	"github.com/minhpq/reddit-mirror-bot/internal/repositories/tracking"
	"github.com/minhpq/reddit-mirror-bot/internal/youtube"
	apperrors "github.com/minhpq/reddit-mirror-bot/pkg/errors"
	"github.com/panjf2000/ants/v2"
)

// reconcileDelay smooths the request rate of the reconciliation sweep.
const reconcileDelay = 2 * time.Second

func (p *PollerImpl) ScheduleNewPostSweep(ctx context.Context) error {
	period := time.Duration(p.Config.Poller.SweepMinutes) * time.Minute
	return p.schedulePeriodic(ctx, "new-post sweep", gocron.DurationJob(period), func(taskCtx context.Context) {
		p.runSweep(taskCtx, "new-post sweep", 0)
	})
}

func (p *PollerImpl) ScheduleReconciliation(ctx context.Context) error {
	period := time.Duration(p.Config.Poller.ReconcileHours) * time.Hour
	return p.schedulePeriodic(ctx, "reconciliation sweep", gocron.DurationJob(period), func(taskCtx context.Context) {
		p.runSweep(taskCtx, "reconciliation sweep", reconcileDelay)
	})
}

// schedulePeriodic starts one singleton gocron job; a run that outlives its
// period defers the next invocation instead of overlapping it.
func (p *PollerImpl) schedulePeriodic(ctx context.Context, name string, def gocron.JobDefinition, task func(context.Context)) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		def,
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				return
			}
			taskCtx, cancel := context.WithTimeout(ctx, 30*time.Minute)
			defer cancel()

			start := time.Now()
			p.Logger.Info("Starting sweep", "sweep", name)
			task(taskCtx)
			p.Logger.Info("Finished sweep", "sweep", name, "duration", time.Since(start).Round(time.Millisecond).String())
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}

	scheduler.Start()

	go func() {
		<-ctx.Done()
		if err := scheduler.Shutdown(); err != nil {
			p.Logger.Error("Failed to shut down scheduler", "sweep", name, "error", err)
		}
	}()

	return nil
}

// runSweep processes every active subscription once. A zero interDelay fans
// the work out over the worker pool; a positive one runs sequentially with
// that pause between subscriptions.
func (p *PollerImpl) runSweep(ctx context.Context, name string, interDelay time.Duration) {
	p.Tracker.Clear()

	subs, err := p.SubscriptionRepo.GetAll(ctx)
	if err != nil {
		p.Logger.Error("Failed to load subscriptions", "sweep", name, "error", err)
		return
	}
	if len(subs) == 0 {
		return
	}

	buttons, err := p.ButtonRepo.GetAll(ctx)
	if err != nil {
		p.Logger.Warn("Failed to load button visibility, showing all", "error", err)
		buttons = nil
	}

	if interDelay > 0 {
		for _, sub := range subs {
			if ctx.Err() != nil {
				return
			}
			p.processSubscription(ctx, *sub, buttons)
			time.Sleep(interDelay)
		}
		return
	}

	pool, err := ants.NewPool(p.Config.Poller.Workers, ants.WithPreAlloc(true))
	if err != nil {
		p.Logger.Warn("Worker pool unavailable, processing sequentially",
			"workers", p.Config.Poller.Workers, "error", err)
		for _, sub := range subs {
			if ctx.Err() != nil {
				return
			}
			p.processSubscription(ctx, *sub, buttons)
		}
		return
	}
	defer pool.Release()

	var wg sync.WaitGroup

	for _, sub := range subs {
		wg.Add(1)
		subToProcess := *sub

		err := pool.Submit(func() {
			defer wg.Done()
			select {
			case <-ctx.Done():
			default:
				p.processSubscription(ctx, subToProcess, buttons)
			}
		})
		if err != nil {
			wg.Done()
			p.Logger.Error("Failed to submit job to pool", "subreddit", subToProcess.Subreddit, "error", err)
		}
	}

	wg.Wait()
}

// processSubscription runs one fetch-and-render unit of work. The cursor
// only advances after the whole batch was walked, so a crash mid-batch
// re-delivers rather than skips.
func (p *PollerImpl) processSubscription(ctx context.Context, sub domain.Subscription, buttons map[string]bool) {
	unlock := p.Tracker.LockPair(sub.Subreddit, sub.ChatID)
	defer unlock()

	since := time.Now().UTC()
	lastPostID := ""
	cursor, err := p.TrackingRepo.Get(ctx, sub.Subreddit, sub.ChatID)
	switch {
	case err == nil:
		since = cursor.LastChecked
		lastPostID = cursor.LastPostID
	case apperrors.Is(err, tracking.ErrNotFound):
		// First sweep for this pair starts from now.
	default:
		p.Logger.Error("Failed to read cursor", "subreddit", sub.Subreddit, "chat_id", sub.ChatID, "error", err)
		return
	}

	posts, err := p.Reddit.FetchNew(ctx, sub.Subreddit, since, p.Config.Reddit.PageLimit)
	if err != nil {
		if apperrors.IsPermanent(err) {
			p.Logger.Warn("Subreddit gone or private, flagging for review",
				"subreddit", sub.Subreddit, "chat_id", sub.ChatID, "error", err)
			if ferr := p.SubscriptionRepo.IncrementFailedAttempts(ctx, sub.Subreddit, sub.ChatID); ferr != nil {
				p.Logger.Error("Failed to flag subscription", "subreddit", sub.Subreddit, "error", ferr)
			}
			return
		}
		p.Logger.Warn("Fetch failed, skipping this cycle",
			"subreddit", sub.Subreddit, "chat_id", sub.ChatID, "error", err)
		return
	}

	if sub.FailedAttempts > 0 {
		if ferr := p.SubscriptionRepo.ResetFailedAttempts(ctx, sub.Subreddit, sub.ChatID); ferr != nil {
			p.Logger.Error("Failed to reset flag", "subreddit", sub.Subreddit, "error", ferr)
		}
	}

	if len(posts) == 0 {
		return
	}

	checkedAt := time.Now().UTC()
	newestID := posts[0].ID

	// The fetch is newest first; deliver oldest first so chat order
	// matches chronological order.
	for i := len(posts) - 1; i >= 0; i-- {
		post := posts[i]
		if post.ID == lastPostID {
			continue
		}
		if p.Tracker.MarkSeen(sub.ChatID, post.ID) {
			p.Logger.Debug("Skipping already processed post", "post_id", post.ID, "chat_id", sub.ChatID)
			continue
		}
		p.processPost(ctx, sub, post, buttons)
	}

	err = p.TrackingRepo.Upsert(ctx, domain.Cursor{
		Subreddit:   sub.Subreddit,
		ChatID:      sub.ChatID,
		LastChecked: checkedAt,
		LastPostID:  newestID,
	})
	if err != nil {
		p.Logger.Error("Failed to advance cursor", "subreddit", sub.Subreddit, "chat_id", sub.ChatID, "error", err)
	}
}

// processPost mirrors one post. Failures are logged and the post is
// best-effort skipped; a malformed post must not wedge the batch.
func (p *PollerImpl) processPost(ctx context.Context, sub domain.Subscription, post *domain.Post, buttons map[string]bool) {
	kind := classify.Classify(post)

	if err := p.Reddit.LoadFull(ctx, post); err != nil {
		p.Logger.Debug("Author hydration failed", "post_id", post.ID, "error", err)
	}
	p.Prober.Annotate(ctx, post)

	in := render.Input{
		Post:    post,
		Kind:    kind,
		Caps:    domain.DefaultCapabilities(),
		Buttons: buttons,
		Now:     time.Now().UTC(),
	}
	if kind == classify.KindExternalVideo {
		if id := youtube.ExtractVideoID(post.Origin().URL); id != "" {
			in.VideoTitle, in.VideoThumbnail = p.YouTube.Lookup(ctx, id)
		}
	}

	units := render.Render(in)
	if err := p.Delivery.Deliver(sub, post, units); err != nil {
		p.Logger.Error("Delivery incomplete",
			"subreddit", sub.Subreddit, "chat_id", sub.ChatID, "post_id", post.ID, "kind", kind.String(), "error", err)
		return
	}

	p.Logger.Info("Mirrored post",
		"subreddit", sub.Subreddit, "chat_id", sub.ChatID, "post_id", post.ID, "kind", kind.String())
}
