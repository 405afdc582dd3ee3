package tracking

import (
	"context"
	"errors"

	"github.com/minhpq/reddit-mirror-bot/internal/domain"
)

var ErrNotFound = errors.New("tracking cursor not found")

//go:generate go run go.uber.org/mock/mockgen -source=tracking.go -destination=mocks/mock.go
type Repository interface {
	// Get returns the cursor for a (subreddit, chat) pair or ErrNotFound.
	Get(ctx context.Context, subreddit string, chatID int64) (*domain.Cursor, error)

	// Upsert writes the cursor. last_checked is monotonic: an upsert with an
	// older timestamp than the stored row keeps the stored value.
	Upsert(ctx context.Context, cursor domain.Cursor) error

	// DeleteForChat prunes every cursor pointing at a destination that no
	// longer exists.
	DeleteForChat(ctx context.Context, chatID int64) (int64, error)
}
