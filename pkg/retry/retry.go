package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	apperrors "github.com/minhpq/reddit-mirror-bot/pkg/errors"
	"github.com/minhpq/reddit-mirror-bot/pkg/logger"
)

type Config struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

// DefaultConfig allows three attempts in total with a doubling delay.
func DefaultConfig() Config {
	return Config{
		MaxRetries:      2,
		InitialInterval: 5 * time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      2,
	}
}

// Do runs operation with exponential backoff. Only errors tagged as
// rate-limited or transient are retried, up to cfg.MaxRetries times;
// permanent and untagged errors stop the loop immediately.
func Do(ctx context.Context, log logger.Logger, operationName string, operation func() error, cfg Config) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = cfg.InitialInterval
	bo.MaxInterval = cfg.MaxInterval
	bo.Multiplier = cfg.Multiplier
	bo.RandomizationFactor = 0
	bo.Reset()

	retryable := backoff.WithMaxRetries(bo, cfg.MaxRetries)
	retryableWithContext := backoff.WithContext(retryable, ctx)

	wrapped := func() error {
		err := operation()
		if err != nil && !apperrors.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, t time.Duration) {
		log.Warn(
			"Operation failed, retrying...",
			"operation", operationName,
			"error", err,
			"next_attempt_in", t.Round(time.Millisecond).String(),
		)
	}

	return backoff.RetryNotify(wrapped, retryableWithContext, notify)
}
