package delivery

import (
	"github.com/minhpq/reddit-mirror-bot/internal/domain"
	"github.com/minhpq/reddit-mirror-bot/internal/render"
	"github.com/minhpq/reddit-mirror-bot/internal/telegram"
	"github.com/minhpq/reddit-mirror-bot/pkg/logger"
	"go.uber.org/fx"
)

// buttonCarrierText backs the follow-up message that carries an attachment
// batch's buttons; media groups themselves cannot hold a keyboard.
const buttonCarrierText = "Links"

// Driver walks a post's send units in order. A failed unit is logged and
// skipped; the rest of the batch still goes out.
type Driver struct {
	tg     telegram.Client
	logger logger.Logger
}

type Opts struct {
	fx.In

	Telegram telegram.Client
	Logger   logger.Logger
}

func New(opts Opts) *Driver {
	return &Driver{
		tg:     opts.Telegram,
		logger: opts.Logger.WithComponent("Delivery"),
	}
}

// Deliver sends every unit to the subscription's destination. When the
// subscription asks for a thread per post, a forum topic named after the
// post is opened first and everything goes there.
func (d *Driver) Deliver(sub domain.Subscription, post *domain.Post, units []domain.SendUnit) error {
	target := telegram.Target{ChatID: sub.ChatID, ThreadID: sub.ThreadID}

	if sub.PerPostThread {
		threadID, err := d.tg.CreateForumTopic(sub.ChatID, render.ThreadName(post))
		if err != nil {
			d.logger.Error("Failed to create forum topic",
				"subreddit", sub.Subreddit, "chat_id", sub.ChatID, "post_id", post.ID, "error", err)
			return err
		}
		target.ThreadID = threadID
	}

	var lastErr error
	for i, unit := range units {
		if err := d.sendUnit(target, unit); err != nil {
			d.logger.Error("Failed to send unit",
				"subreddit", sub.Subreddit, "chat_id", sub.ChatID,
				"post_id", post.ID, "unit", i, "error", err)
			lastErr = err
		}
	}
	return lastErr
}

func (d *Driver) sendUnit(target telegram.Target, unit domain.SendUnit) error {
	switch {
	case unit.VideoURL != "":
		return d.tg.SendVideo(target, unit.VideoURL, unit.Buttons)
	case len(unit.Attachments) > 0:
		if err := d.tg.SendMediaGroup(target, unit.Attachments); err != nil {
			return err
		}
		if len(unit.Buttons) > 0 {
			_, err := d.tg.SendMessage(target, buttonCarrierText, "", unit.Buttons)
			return err
		}
		return nil
	default:
		_, err := d.tg.SendMessage(target, unit.Text, unit.ImageURL, unit.Buttons)
		return err
	}
}

var Module = fx.Module("delivery",
	fx.Provide(New),
)
