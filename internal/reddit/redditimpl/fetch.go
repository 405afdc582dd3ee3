package redditimpl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/minhpq/reddit-mirror-bot/internal/domain"
	apperrors "github.com/minhpq/reddit-mirror-bot/pkg/errors"
	"github.com/minhpq/reddit-mirror-bot/pkg/retry"
)

func (r *RedditImpl) FetchNew(ctx context.Context, subreddit string, since time.Time, limit int) ([]*domain.Post, error) {
	url := fmt.Sprintf("%s/r/%s/new.json?limit=%d&raw_json=1", r.baseURL, subreddit, limit)

	var body listing
	op := func() error {
		return r.getJSON(ctx, url, &body)
	}

	if err := retry.Do(ctx, r.logger, "fetch r/"+subreddit, op, r.retryCfg); err != nil {
		if apperrors.KindOf(err) == apperrors.KindUnexpected {
			r.logger.Error("Unexpected fetch failure, treating as empty", "subreddit", subreddit, "error", err)
			return nil, nil
		}
		return nil, err
	}

	posts := make([]*domain.Post, 0, len(body.Data.Children))
	for _, child := range body.Data.Children {
		post := child.Data.toDomain()
		if !post.CreatedAt.After(since) {
			break
		}
		posts = append(posts, post)
	}

	r.logger.Debug("Fetched new submissions", "subreddit", subreddit, "count", len(posts))
	return posts, nil
}

// LoadFull hydrates the author icon from the profile endpoint. Failures
// leave the post as is so the byline degrades to icon-less.
func (r *RedditImpl) LoadFull(ctx context.Context, post *domain.Post) error {
	if post.Author == "" || post.Author == "[deleted]" {
		return nil
	}

	url := fmt.Sprintf("%s/user/%s/about.json?raw_json=1", r.baseURL, post.Author)
	var about struct {
		Data struct {
			IconImg string `json:"icon_img"`
		} `json:"data"`
	}
	if err := r.getJSON(ctx, url, &about); err != nil {
		return err
	}

	post.AuthorIcon = stripQuery(about.Data.IconImg)
	return nil
}

// getJSON performs one rate-limited request and classifies the failure so
// the retry layer and scheduler can decide policy without string matching.
func (r *RedditImpl) getJSON(ctx context.Context, url string, out any) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return apperrors.Transient(err, "rate limiter wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return apperrors.Wrap(err, "build request")
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return apperrors.Transient(err, "request failed")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return apperrors.Permanent(apperrors.ErrForbidden, "access forbidden")
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.Permanent(apperrors.ErrNotFound, "not found")
	case resp.StatusCode == http.StatusTooManyRequests:
		return apperrors.RateLimited(apperrors.ErrRateLimited, "rate limit exceeded")
	case resp.StatusCode >= 500:
		return apperrors.Transient(apperrors.ErrInternalServer, fmt.Sprintf("server error: %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return apperrors.New(fmt.Sprintf("unexpected status: %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(err, "decode response")
	}
	return nil
}
