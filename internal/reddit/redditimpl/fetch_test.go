package redditimpl

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/minhpq/reddit-mirror-bot/internal/domain"
	apperrors "github.com/minhpq/reddit-mirror-bot/pkg/errors"
	"github.com/minhpq/reddit-mirror-bot/pkg/logger"
	"github.com/minhpq/reddit-mirror-bot/pkg/retry"
	"golang.org/x/time/rate"
)

func testClient(baseURL string) *RedditImpl {
	return &RedditImpl{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		limiter:    rate.NewLimiter(rate.Inf, 1),
		baseURL:    baseURL,
		userAgent:  "test-agent",
		retryCfg: retry.Config{
			MaxRetries:      2,
			InitialInterval: time.Millisecond,
			MaxInterval:     5 * time.Millisecond,
			Multiplier:      2,
		},
		logger: logger.New(logger.Opts{}),
	}
}

func listingJSON(createdUTCs ...int64) string {
	children := ""
	for i, ts := range createdUTCs {
		if i > 0 {
			children += ","
		}
		children += fmt.Sprintf(`{"data": {"id": "post%d", "subreddit": "golang", "created_utc": %d}}`, i, ts)
	}
	return `{"data": {"children": [` + children + `]}}`
}

func TestFetchNewStopsAtSince(t *testing.T) {
	base := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

	// Newest first, as the listing endpoint returns them.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "test-agent" {
			t.Errorf("User-Agent = %q", got)
		}
		fmt.Fprint(w, listingJSON(
			base.Add(3*time.Minute).Unix(),
			base.Add(2*time.Minute).Unix(),
			base.Add(time.Minute).Unix(),
			base.Add(-time.Minute).Unix(),
			base.Add(-2*time.Minute).Unix(),
		))
	}))
	defer srv.Close()

	posts, err := testClient(srv.URL).FetchNew(context.Background(), "golang", base, 10)
	if err != nil {
		t.Fatal(err)
	}

	if len(posts) != 3 {
		t.Fatalf("got %d posts, want the 3 newer than the cursor", len(posts))
	}
	if posts[0].ID != "post0" {
		t.Errorf("first post = %q, want the newest", posts[0].ID)
	}
}

func TestFetchNewCutoffIsExclusive(t *testing.T) {
	base := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listingJSON(base.Unix()))
	}))
	defer srv.Close()

	posts, err := testClient(srv.URL).FetchNew(context.Background(), "golang", base, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 0 {
		t.Errorf("post created exactly at the cursor should not be returned, got %d", len(posts))
	}
}

func TestFetchNewPermanentFailureIsNotRetried(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchNew(context.Background(), "gone", time.Time{}, 10)
	if !apperrors.IsPermanent(err) {
		t.Fatalf("want a permanent error, got %v", err)
	}
	if requests != 1 {
		t.Errorf("got %d requests, want 1", requests)
	}
}

func TestFetchNewRateLimitIsRetried(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchNew(context.Background(), "busy", time.Time{}, 10)
	if apperrors.KindOf(err) != apperrors.KindRateLimited {
		t.Fatalf("want a rate-limited error, got %v", err)
	}
	if requests != 3 {
		t.Errorf("got %d requests, want 3 attempts", requests)
	}
}

func TestFetchNewRecoversAfterServerError(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, listingJSON(time.Now().Add(time.Hour).Unix()))
	}))
	defer srv.Close()

	posts, err := testClient(srv.URL).FetchNew(context.Background(), "flaky", time.Time{}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 1 {
		t.Errorf("got %d posts, want 1", len(posts))
	}
}

func TestFetchNewMalformedBodyTreatedAsEmpty(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, "<html>not json</html>")
	}))
	defer srv.Close()

	posts, err := testClient(srv.URL).FetchNew(context.Background(), "weird", time.Time{}, 10)
	if err != nil {
		t.Fatalf("malformed body should degrade to empty, got %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("got %d posts, want 0", len(posts))
	}
	if requests != 1 {
		t.Errorf("got %d requests, want 1: decode failures are not retryable", requests)
	}
}

func TestLoadFull(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/gopher/about.json" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"data": {"icon_img": "https://styles.redditmedia.com/icon.png?width=256"}}`)
	}))
	defer srv.Close()

	post := &domain.Post{ID: "p1", Author: "gopher"}
	if err := testClient(srv.URL).LoadFull(context.Background(), post); err != nil {
		t.Fatal(err)
	}
	if post.AuthorIcon != "https://styles.redditmedia.com/icon.png" {
		t.Errorf("AuthorIcon = %q", post.AuthorIcon)
	}
}

func TestLoadFullSkipsDeletedAuthor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for a deleted author")
	}))
	defer srv.Close()

	post := &domain.Post{ID: "p1", Author: "[deleted]"}
	if err := testClient(srv.URL).LoadFull(context.Background(), post); err != nil {
		t.Fatal(err)
	}
	if post.AuthorIcon != "" {
		t.Errorf("AuthorIcon = %q, want empty", post.AuthorIcon)
	}
}
