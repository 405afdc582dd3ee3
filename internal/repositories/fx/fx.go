package fx

import (
	"github.com/minhpq/reddit-mirror-bot/internal/repositories/buttonvisibility"
	"github.com/minhpq/reddit-mirror-bot/internal/repositories/subscription"
	"github.com/minhpq/reddit-mirror-bot/internal/repositories/tracking"
	"go.uber.org/fx"
)

var Module = fx.Options(
	subscription.Module,
	tracking.Module,
	buttonvisibility.Module,
)
