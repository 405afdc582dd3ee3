package domain

import "time"

// Subscription maps a subreddit onto a Telegram chat, optionally scoped to a
// forum topic, optionally creating a fresh topic per mirrored post.
type Subscription struct {
	ID             int
	Subreddit      string
	ChatID         int64
	ThreadID       int64
	PerPostThread  bool
	FailedAttempts int
	CreatedAt      time.Time
}
