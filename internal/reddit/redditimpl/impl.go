package redditimpl

import (
	"net/http"
	"time"

	"github.com/minhpq/reddit-mirror-bot/internal/reddit"
	"github.com/minhpq/reddit-mirror-bot/pkg/config"
	"github.com/minhpq/reddit-mirror-bot/pkg/logger"
	"github.com/minhpq/reddit-mirror-bot/pkg/retry"
	"go.uber.org/fx"
	"golang.org/x/time/rate"
)

type RedditImpl struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	userAgent  string
	retryCfg   retry.Config
	logger     logger.Logger
}

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

func New(opts Opts) *RedditImpl {
	return &RedditImpl{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		// Reddit allows ~60 unauthenticated requests per minute.
		limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
		baseURL:   opts.Config.Reddit.BaseURL,
		userAgent: opts.Config.Reddit.UserAgent,
		retryCfg:  retry.DefaultConfig(),
		logger:    opts.Logger.WithComponent("RedditClient"),
	}
}

var _ reddit.Client = (*RedditImpl)(nil)
