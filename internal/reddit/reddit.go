package reddit

import (
	"context"
	"time"

	"github.com/minhpq/reddit-mirror-bot/internal/domain"
)

// Client reads the public listing API of a subreddit.
//
//go:generate go run go.uber.org/mock/mockgen -source=reddit.go -destination=mocks/mock.go
type Client interface {
	// FetchNew returns posts strictly newer than since, newest first,
	// bounded to limit. Scanning stops at the first post at or older
	// than since.
	FetchNew(ctx context.Context, subreddit string, since time.Time, limit int) ([]*domain.Post, error)

	// LoadFull hydrates lazily loaded fields such as the author icon.
	LoadFull(ctx context.Context, post *domain.Post) error
}
