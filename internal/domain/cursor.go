package domain

import "time"

// Cursor is the per (subreddit, chat) tracking row: when the pair was last
// swept and the newest post delivered. LastChecked never moves backwards.
type Cursor struct {
	Subreddit   string
	ChatID      int64
	LastChecked time.Time
	LastPostID  string
}
