package tracker

import (
	"sync"

	"go.uber.org/fx"
)

// Tracker is the process-lifetime dedup cache plus the per-pair locks that
// serialize overlapping sweeps on the same (subreddit, chat) cursor.
type Tracker struct {
	mu   sync.Mutex
	seen map[int64]map[string]struct{}

	locksMu sync.Mutex
	locks   map[pairKey]*sync.Mutex
}

type pairKey struct {
	subreddit string
	chatID    int64
}

func New() *Tracker {
	return &Tracker{
		seen:  make(map[int64]map[string]struct{}),
		locks: make(map[pairKey]*sync.Mutex),
	}
}

// MarkSeen registers a post for a destination and reports whether it was
// already there. Callers register before rendering so two interleaved scans
// of the same feed never both render the same post.
func (t *Tracker) MarkSeen(chatID int64, postID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids, ok := t.seen[chatID]
	if !ok {
		ids = make(map[string]struct{})
		t.seen[chatID] = ids
	}
	if _, dup := ids[postID]; dup {
		return true
	}
	ids[postID] = struct{}{}
	return false
}

// Clear drops every registered id. Called at the start of each sweep.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seen = make(map[int64]map[string]struct{})
}

// LockPair serializes work on one (subreddit, chat) pair across sweeps.
// The returned func releases the lock.
func (t *Tracker) LockPair(subreddit string, chatID int64) func() {
	key := pairKey{subreddit: subreddit, chatID: chatID}

	t.locksMu.Lock()
	lock, ok := t.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[key] = lock
	}
	t.locksMu.Unlock()

	lock.Lock()
	return lock.Unlock
}

var Module = fx.Module("tracker",
	fx.Provide(New),
)
