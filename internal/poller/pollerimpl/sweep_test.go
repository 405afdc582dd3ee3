package pollerimpl

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/minhpq/reddit-mirror-bot/internal/delivery"
	"github.com/minhpq/reddit-mirror-bot/internal/domain"
	"github.com/minhpq/reddit-mirror-bot/internal/repositories/tracking"
	"github.com/minhpq/reddit-mirror-bot/internal/telegram"
	"github.com/minhpq/reddit-mirror-bot/internal/tracker"
	"github.com/minhpq/reddit-mirror-bot/pkg/config"
	apperrors "github.com/minhpq/reddit-mirror-bot/pkg/errors"
	"github.com/minhpq/reddit-mirror-bot/pkg/logger"
)

type fakeReddit struct {
	mu     sync.Mutex
	posts  map[string][]*domain.Post
	err    error
	sinces []time.Time
}

func (f *fakeReddit) FetchNew(ctx context.Context, subreddit string, since time.Time, limit int) ([]*domain.Post, error) {
	f.mu.Lock()
	f.sinces = append(f.sinces, since)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Post
	for _, p := range f.posts[subreddit] {
		if p.CreatedAt.After(since) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeReddit) LoadFull(ctx context.Context, post *domain.Post) error { return nil }

type fakeTelegram struct {
	mu    sync.Mutex
	texts []string
}

func (f *fakeTelegram) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel { return nil }
func (f *fakeTelegram) StopReceivingUpdates()                                        {}
func (f *fakeTelegram) SendPlainMessage(int64, string) error                         { return nil }
func (f *fakeTelegram) SendVideo(telegram.Target, string, []domain.Button) error     { return nil }
func (f *fakeTelegram) SendMediaGroup(telegram.Target, []domain.MediaItem) error     { return nil }
func (f *fakeTelegram) CreateForumTopic(int64, string) (int64, error)                { return 0, nil }
func (f *fakeTelegram) Resolve(telegram.Target) (bool, error)                        { return true, nil }
func (f *fakeTelegram) SendMessageToAdmin(string)                                    {}

func (f *fakeTelegram) SendMessage(target telegram.Target, text, imageURL string, buttons []domain.Button) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	return len(f.texts), nil
}

type fakeSubscriptionRepo struct {
	mu         sync.Mutex
	subs       []*domain.Subscription
	increments int
	resets     int
}

func (f *fakeSubscriptionRepo) Create(context.Context, domain.Subscription) error   { return nil }
func (f *fakeSubscriptionRepo) Delete(context.Context, string, int64, int64) error  { return nil }
func (f *fakeSubscriptionRepo) DeleteByID(context.Context, int) error               { return nil }
func (f *fakeSubscriptionRepo) GetByChatID(context.Context, int64) ([]*domain.Subscription, error) {
	return nil, nil
}

func (f *fakeSubscriptionRepo) GetAll(context.Context) ([]*domain.Subscription, error) {
	return f.subs, nil
}

func (f *fakeSubscriptionRepo) IncrementFailedAttempts(context.Context, string, int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.increments++
	return nil
}

func (f *fakeSubscriptionRepo) ResetFailedAttempts(context.Context, string, int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
	return nil
}

type fakeTrackingRepo struct {
	mu      sync.Mutex
	cursors map[string]*domain.Cursor
	upserts []domain.Cursor
}

func trackingKey(subreddit string, chatID int64) string {
	return subreddit + "/" + strconv.FormatInt(chatID, 10)
}

func (f *fakeTrackingRepo) Get(ctx context.Context, subreddit string, chatID int64) (*domain.Cursor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.cursors[trackingKey(subreddit, chatID)]; ok {
		return c, nil
	}
	return nil, tracking.ErrNotFound
}

func (f *fakeTrackingRepo) Upsert(ctx context.Context, cursor domain.Cursor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cursors == nil {
		f.cursors = make(map[string]*domain.Cursor)
	}
	c := cursor
	f.cursors[trackingKey(cursor.Subreddit, cursor.ChatID)] = &c
	f.upserts = append(f.upserts, cursor)
	return nil
}

func (f *fakeTrackingRepo) DeleteForChat(context.Context, int64) (int64, error) { return 0, nil }

type fakeButtonRepo struct{}

func (fakeButtonRepo) GetAll(context.Context) (map[string]bool, error) { return nil, nil }
func (fakeButtonRepo) Set(context.Context, string, bool) error         { return nil }

type fakeYouTube struct{}

func (fakeYouTube) Lookup(context.Context, string) (string, string) { return "", "" }

type fakeProber struct{}

func (fakeProber) Annotate(context.Context, *domain.Post) {}

func testPoller(reddit *fakeReddit, tg *fakeTelegram, subs *fakeSubscriptionRepo, cursors *fakeTrackingRepo) *PollerImpl {
	cfg := &config.Config{}
	cfg.Reddit.PageLimit = 10
	cfg.Poller.Workers = 2

	log := logger.New(logger.Opts{})
	return New(Opts{
		Reddit:           reddit,
		Telegram:         tg,
		YouTube:          fakeYouTube{},
		Delivery:         delivery.New(delivery.Opts{Telegram: tg, Logger: log}),
		Tracker:          tracker.New(),
		Prober:           fakeProber{},
		SubscriptionRepo: subs,
		TrackingRepo:     cursors,
		ButtonRepo:       fakeButtonRepo{},
		Config:           cfg,
		Logger:           log,
	})
}

func sweepPost(id, title string, createdAt time.Time) *domain.Post {
	return &domain.Post{
		ID:        id,
		Subreddit: "golang",
		Title:     title,
		Author:    "gopher",
		CreatedAt: createdAt,
		Permalink: "/r/golang/comments/" + id + "/x/",
		IsSelf:    true,
	}
}

func TestSweepDeliversOldestFirst(t *testing.T) {
	base := time.Now().UTC().Add(-time.Hour)

	reddit := &fakeReddit{posts: map[string][]*domain.Post{
		"golang": {
			sweepPost("p3", "third", base.Add(3*time.Minute)),
			sweepPost("p2", "second", base.Add(2*time.Minute)),
			sweepPost("p1", "first", base.Add(time.Minute)),
		},
	}}
	tg := &fakeTelegram{}
	subs := &fakeSubscriptionRepo{subs: []*domain.Subscription{{Subreddit: "golang", ChatID: 1}}}
	cursors := &fakeTrackingRepo{cursors: map[string]*domain.Cursor{
		trackingKey("golang", 1): {Subreddit: "golang", ChatID: 1, LastChecked: base},
	}}

	p := testPoller(reddit, tg, subs, cursors)
	p.runSweep(context.Background(), "test", 0)

	if len(tg.texts) != 3 {
		t.Fatalf("got %d messages, want 3", len(tg.texts))
	}
	for i, want := range []string{"first", "second", "third"} {
		if !strings.Contains(tg.texts[i], want) {
			t.Errorf("message %d = %q, want the %q post", i, tg.texts[i], want)
		}
	}

	if len(cursors.upserts) != 1 {
		t.Fatalf("got %d cursor writes, want 1", len(cursors.upserts))
	}
	if got := cursors.upserts[0].LastPostID; got != "p3" {
		t.Errorf("cursor LastPostID = %q, want the newest post", got)
	}
}

func TestSweepSkipsAlreadyDeliveredNewest(t *testing.T) {
	base := time.Now().UTC().Add(-time.Hour)

	reddit := &fakeReddit{posts: map[string][]*domain.Post{
		"golang": {
			sweepPost("p3", "third", base.Add(3*time.Minute)),
			sweepPost("p2", "second", base.Add(2*time.Minute)),
		},
	}}
	tg := &fakeTelegram{}
	subs := &fakeSubscriptionRepo{subs: []*domain.Subscription{{Subreddit: "golang", ChatID: 1}}}
	cursors := &fakeTrackingRepo{cursors: map[string]*domain.Cursor{
		trackingKey("golang", 1): {Subreddit: "golang", ChatID: 1, LastChecked: base, LastPostID: "p2"},
	}}

	p := testPoller(reddit, tg, subs, cursors)
	p.runSweep(context.Background(), "test", 0)

	if len(tg.texts) != 1 {
		t.Fatalf("got %d messages, want only the one past the cursor", len(tg.texts))
	}
	if !strings.Contains(tg.texts[0], "third") {
		t.Errorf("unexpected delivery: %q", tg.texts[0])
	}
}

func TestSweepFirstRunDeliversNothing(t *testing.T) {
	reddit := &fakeReddit{posts: map[string][]*domain.Post{
		"golang": {sweepPost("old", "stale", time.Now().UTC().Add(-time.Hour))},
	}}
	tg := &fakeTelegram{}
	subs := &fakeSubscriptionRepo{subs: []*domain.Subscription{{Subreddit: "golang", ChatID: 1}}}
	cursors := &fakeTrackingRepo{}

	p := testPoller(reddit, tg, subs, cursors)
	p.runSweep(context.Background(), "test", 0)

	if len(tg.texts) != 0 {
		t.Errorf("first run delivered %d messages, want 0", len(tg.texts))
	}
	if len(cursors.upserts) != 0 {
		t.Errorf("empty batch advanced the cursor: %+v", cursors.upserts)
	}
}

func TestSweepDedupsSameChat(t *testing.T) {
	base := time.Now().UTC().Add(-time.Hour)

	reddit := &fakeReddit{posts: map[string][]*domain.Post{
		"golang": {sweepPost("p1", "once", base.Add(time.Minute))},
	}}
	tg := &fakeTelegram{}
	subs := &fakeSubscriptionRepo{subs: []*domain.Subscription{
		{Subreddit: "golang", ChatID: 1, ThreadID: 0},
		{Subreddit: "golang", ChatID: 1, ThreadID: 5},
	}}
	cursors := &fakeTrackingRepo{cursors: map[string]*domain.Cursor{
		trackingKey("golang", 1): {Subreddit: "golang", ChatID: 1, LastChecked: base},
	}}

	p := testPoller(reddit, tg, subs, cursors)
	p.runSweep(context.Background(), "test", 0)

	if len(tg.texts) != 1 {
		t.Errorf("got %d deliveries into one chat, want 1", len(tg.texts))
	}
}

func TestSweepPermanentFailureFlagsSubscription(t *testing.T) {
	reddit := &fakeReddit{err: apperrors.Permanent(errors.New("404"), "gone")}
	tg := &fakeTelegram{}
	subs := &fakeSubscriptionRepo{subs: []*domain.Subscription{{Subreddit: "gone", ChatID: 1}}}
	cursors := &fakeTrackingRepo{}

	p := testPoller(reddit, tg, subs, cursors)
	p.runSweep(context.Background(), "test", 0)

	if subs.increments != 1 {
		t.Errorf("got %d failed-attempt increments, want 1", subs.increments)
	}
	if len(cursors.upserts) != 0 {
		t.Errorf("failed fetch advanced the cursor: %+v", cursors.upserts)
	}
}

func TestSweepTransientFailureLeavesEverythingAlone(t *testing.T) {
	reddit := &fakeReddit{err: apperrors.Transient(errors.New("503"), "flaky")}
	tg := &fakeTelegram{}
	subs := &fakeSubscriptionRepo{subs: []*domain.Subscription{{Subreddit: "golang", ChatID: 1}}}
	cursors := &fakeTrackingRepo{cursors: map[string]*domain.Cursor{
		trackingKey("golang", 1): {Subreddit: "golang", ChatID: 1, LastChecked: time.Now().UTC(), LastPostID: "p9"},
	}}

	p := testPoller(reddit, tg, subs, cursors)
	p.runSweep(context.Background(), "test", 0)

	if subs.increments != 0 {
		t.Errorf("transient failure flagged the subscription")
	}
	if len(cursors.upserts) != 0 {
		t.Errorf("transient failure advanced the cursor: %+v", cursors.upserts)
	}
	if len(tg.texts) != 0 {
		t.Errorf("transient failure delivered messages: %v", tg.texts)
	}
}

func TestSweepSurvivesMisconfiguredWorkerCount(t *testing.T) {
	base := time.Now().UTC().Add(-time.Hour)

	reddit := &fakeReddit{posts: map[string][]*domain.Post{
		"golang": {sweepPost("p1", "still delivered", base.Add(time.Minute))},
	}}
	tg := &fakeTelegram{}
	subs := &fakeSubscriptionRepo{subs: []*domain.Subscription{{Subreddit: "golang", ChatID: 1}}}
	cursors := &fakeTrackingRepo{cursors: map[string]*domain.Cursor{
		trackingKey("golang", 1): {Subreddit: "golang", ChatID: 1, LastChecked: base},
	}}

	p := testPoller(reddit, tg, subs, cursors)
	p.Config.Poller.Workers = 0
	p.runSweep(context.Background(), "test", 0)

	if len(tg.texts) != 1 {
		t.Errorf("got %d deliveries with a zero worker count, want 1", len(tg.texts))
	}
}

func TestSweepResetsFlagAfterGoodFetch(t *testing.T) {
	reddit := &fakeReddit{posts: map[string][]*domain.Post{}}
	tg := &fakeTelegram{}
	subs := &fakeSubscriptionRepo{subs: []*domain.Subscription{
		{Subreddit: "golang", ChatID: 1, FailedAttempts: 2},
	}}
	cursors := &fakeTrackingRepo{}

	p := testPoller(reddit, tg, subs, cursors)
	p.runSweep(context.Background(), "test", 0)

	if subs.resets != 1 {
		t.Errorf("got %d flag resets, want 1", subs.resets)
	}
}
