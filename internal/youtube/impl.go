package youtube

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/minhpq/reddit-mirror-bot/pkg/logger"
	"go.uber.org/fx"
)

const fallbackTitle = "YouTube Video"

type OEmbedClient struct {
	httpClient *http.Client
	logger     logger.Logger
}

type Opts struct {
	fx.In

	Logger logger.Logger
}

func New(opts Opts) *OEmbedClient {
	return &OEmbedClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     opts.Logger.WithComponent("YouTube"),
	}
}

var _ Client = (*OEmbedClient)(nil)

func (c *OEmbedClient) Lookup(ctx context.Context, videoID string) (string, string) {
	endpoint := "https://www.youtube.com/oembed?format=json&url=" + url.QueryEscape(WatchURL(videoID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fallbackTitle, ""
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("oEmbed lookup failed", "video_id", videoID, "error", err)
		return fallbackTitle, ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("oEmbed lookup rejected", "video_id", videoID, "status", resp.StatusCode)
		return fallbackTitle, ""
	}

	var payload struct {
		Title        string `json:"title"`
		ThumbnailURL string `json:"thumbnail_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fallbackTitle, ""
	}
	if payload.Title == "" {
		payload.Title = fallbackTitle
	}
	return payload.Title, payload.ThumbnailURL
}

var Module = fx.Module("youtube",
	fx.Provide(
		fx.Annotate(New, fx.As(new(Client))),
	),
)
