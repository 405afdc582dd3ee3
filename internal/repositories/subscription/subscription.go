package subscription

import (
	"context"
	"errors"
	"strings"

	"github.com/minhpq/reddit-mirror-bot/internal/domain"
)

var (
	ErrAlreadyExists = errors.New("subscription already exists")
	ErrNotFound      = errors.New("subscription not found")
)

//go:generate go run go.uber.org/mock/mockgen -source=subscription.go -destination=mocks/mock.go
type Repository interface {
	// Create inserts a subscription; inserting a duplicate
	// (subreddit, chat, thread) row returns ErrAlreadyExists.
	Create(ctx context.Context, sub domain.Subscription) error
	Delete(ctx context.Context, subreddit string, chatID, threadID int64) error
	DeleteByID(ctx context.Context, id int) error
	GetAll(ctx context.Context) ([]*domain.Subscription, error)
	GetByChatID(ctx context.Context, chatID int64) ([]*domain.Subscription, error)

	// IncrementFailedAttempts marks a feed-side permanent failure for
	// operator review; ResetFailedAttempts clears it after a good fetch.
	IncrementFailedAttempts(ctx context.Context, subreddit string, chatID int64) error
	ResetFailedAttempts(ctx context.Context, subreddit string, chatID int64) error
}

// SanitizeSubreddit normalizes user input like "r/golang/" or "/r/golang".
func SanitizeSubreddit(name string) string {
	name = strings.ToLower(strings.Trim(name, "/ "))
	name = strings.TrimPrefix(name, "r/")
	return strings.Trim(name, "/")
}
