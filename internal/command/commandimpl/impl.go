package commandimpl

import (
	"sync"

	"github.com/minhpq/reddit-mirror-bot/internal/command"
	"github.com/minhpq/reddit-mirror-bot/internal/repositories/buttonvisibility"
	"github.com/minhpq/reddit-mirror-bot/internal/repositories/subscription"
	"github.com/minhpq/reddit-mirror-bot/internal/telegram"
	"github.com/minhpq/reddit-mirror-bot/pkg/config"
	"github.com/minhpq/reddit-mirror-bot/pkg/logger"
	"go.uber.org/fx"
	"golang.org/x/time/rate"
)

type Opts struct {
	fx.In

	Telegram         telegram.Client
	Logger           logger.Logger
	Config           *config.Config
	SubscriptionRepo subscription.Repository
	ButtonRepo       buttonvisibility.Repository
}

type CommandImpl struct {
	Telegram         telegram.Client
	Logger           logger.Logger
	Config           *config.Config
	SubscriptionRepo subscription.Repository
	ButtonRepo       buttonvisibility.Repository

	limitersMu sync.Mutex
	limiters   map[int64]*rate.Limiter
}

func New(opts Opts) *CommandImpl {
	return &CommandImpl{
		Telegram:         opts.Telegram,
		Logger:           opts.Logger.WithComponent("Command"),
		Config:           opts.Config,
		SubscriptionRepo: opts.SubscriptionRepo,
		ButtonRepo:       opts.ButtonRepo,
		limiters:         make(map[int64]*rate.Limiter),
	}
}

var _ command.Client = (*CommandImpl)(nil)

// allow rate-limits commands per user so one chat cannot monopolize the bot.
func (c *CommandImpl) allow(userID int64) bool {
	c.limitersMu.Lock()
	defer c.limitersMu.Unlock()

	limiter, ok := c.limiters[userID]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(1), 3)
		c.limiters[userID] = limiter
	}
	return limiter.Allow()
}
