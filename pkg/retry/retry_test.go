package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/minhpq/reddit-mirror-bot/pkg/errors"
	"github.com/minhpq/reddit-mirror-bot/pkg/logger"
)

func testConfig() Config {
	return Config{
		MaxRetries:      2,
		InitialInterval: time.Millisecond,
		MaxInterval:     10 * time.Millisecond,
		Multiplier:      2,
	}
}

func testLogger() logger.Logger {
	return logger.New(logger.Opts{})
}

func TestDoRetriesTransientErrors(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), testLogger(), "op", func() error {
		attempts++
		return apperrors.Transient(errors.New("boom"), "upstream hiccup")
	}, testConfig())

	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if attempts != 3 {
		t.Errorf("got %d attempts, want 3", attempts)
	}
}

func TestDoSucceedsAfterRetry(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), testLogger(), "op", func() error {
		attempts++
		if attempts < 3 {
			return apperrors.RateLimited(errors.New("429"), "throttled")
		}
		return nil
	}, testConfig())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("got %d attempts, want 3", attempts)
	}
}

func TestDoStopsOnPermanentError(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), testLogger(), "op", func() error {
		attempts++
		return apperrors.Permanent(errors.New("404"), "feed gone")
	}, testConfig())

	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("got %d attempts, want 1 for a permanent error", attempts)
	}
	if !apperrors.IsPermanent(err) {
		t.Errorf("permanent tag lost through the retry loop: %v", err)
	}
}

func TestDoDoesNotRetryUntaggedErrors(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), testLogger(), "op", func() error {
		attempts++
		return errors.New("malformed payload")
	}, testConfig())

	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("got %d attempts, want 1 for an untagged error", attempts)
	}
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	err := Do(ctx, testLogger(), "op", func() error {
		attempts++
		cancel()
		return apperrors.Transient(errors.New("boom"), "upstream hiccup")
	}, testConfig())

	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("got %d attempts, want 1 after cancellation", attempts)
	}
}
