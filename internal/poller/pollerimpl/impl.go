package pollerimpl

import (
	"github.com/minhpq/reddit-mirror-bot/internal/delivery"
	"github.com/minhpq/reddit-mirror-bot/internal/mediaprobe"
	"github.com/minhpq/reddit-mirror-bot/internal/poller"
	"github.com/minhpq/reddit-mirror-bot/internal/reddit"
	"github.com/minhpq/reddit-mirror-bot/internal/repositories/buttonvisibility"
	"github.com/minhpq/reddit-mirror-bot/internal/repositories/subscription"
	"github.com/minhpq/reddit-mirror-bot/internal/repositories/tracking"
	"github.com/minhpq/reddit-mirror-bot/internal/telegram"
	"github.com/minhpq/reddit-mirror-bot/internal/tracker"
	"github.com/minhpq/reddit-mirror-bot/internal/youtube"
	"github.com/minhpq/reddit-mirror-bot/pkg/config"
	"github.com/minhpq/reddit-mirror-bot/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Reddit           reddit.Client
	Telegram         telegram.Client
	YouTube          youtube.Client
	Delivery         *delivery.Driver
	Tracker          *tracker.Tracker
	Prober           mediaprobe.Prober
	SubscriptionRepo subscription.Repository
	TrackingRepo     tracking.Repository
	ButtonRepo       buttonvisibility.Repository
	Config           *config.Config
	Logger           logger.Logger
}

type PollerImpl struct {
	Reddit           reddit.Client
	Telegram         telegram.Client
	YouTube          youtube.Client
	Delivery         *delivery.Driver
	Tracker          *tracker.Tracker
	Prober           mediaprobe.Prober
	SubscriptionRepo subscription.Repository
	TrackingRepo     tracking.Repository
	ButtonRepo       buttonvisibility.Repository
	Config           *config.Config
	Logger           logger.Logger
}

func New(opts Opts) *PollerImpl {
	return &PollerImpl{
		Reddit:           opts.Reddit,
		Telegram:         opts.Telegram,
		YouTube:          opts.YouTube,
		Delivery:         opts.Delivery,
		Tracker:          opts.Tracker,
		Prober:           opts.Prober,
		SubscriptionRepo: opts.SubscriptionRepo,
		TrackingRepo:     opts.TrackingRepo,
		ButtonRepo:       opts.ButtonRepo,
		Config:           opts.Config,
		Logger:           opts.Logger.WithComponent("Poller"),
	}
}

var _ poller.Client = (*PollerImpl)(nil)
