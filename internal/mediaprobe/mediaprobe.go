package mediaprobe

import (
	"context"
	"net/http"
	"time"

	"github.com/minhpq/reddit-mirror-bot/internal/domain"
	"github.com/minhpq/reddit-mirror-bot/pkg/logger"
	"go.uber.org/fx"
)

// Prober annotates media items with their byte size so the renderer can
// stay a pure function of the post.
//
//go:generate go run go.uber.org/mock/mockgen -source=mediaprobe.go -destination=mocks/mock.go
type Prober interface {
	// Annotate fills ByteSize on the post's media items, crosspost origin
	// included. A failed probe leaves the size at zero, which renders as
	// within budget.
	Annotate(ctx context.Context, post *domain.Post)
}

type HeadProber struct {
	httpClient *http.Client
	logger     logger.Logger
}

type Opts struct {
	fx.In

	Logger logger.Logger
}

func New(opts Opts) *HeadProber {
	return &HeadProber{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     opts.Logger.WithComponent("MediaProbe"),
	}
}

var _ Prober = (*HeadProber)(nil)

func (h *HeadProber) Annotate(ctx context.Context, post *domain.Post) {
	p := post.Origin()

	for i := range p.Gallery {
		// Only animated items blow past the inline ceiling in practice.
		if p.Gallery[i].Animated {
			p.Gallery[i].ByteSize = h.probe(ctx, p.Gallery[i].URL)
		}
	}
	for i := range p.BodyMedia {
		if p.BodyMedia[i].Animated {
			p.BodyMedia[i].ByteSize = h.probe(ctx, p.BodyMedia[i].URL)
		}
	}
	if p.Video != nil {
		p.Video.ByteSize = h.probe(ctx, p.Video.FallbackURL)
	}
	if p.VideoPreview != nil {
		p.VideoPreview.ByteSize = h.probe(ctx, p.VideoPreview.FallbackURL)
	}
}

func (h *HeadProber) probe(ctx context.Context, url string) int64 {
	if url == "" {
		return 0
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		h.logger.Debug("Size probe failed", "url", url, "error", err)
		return 0
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0
	}
	return resp.ContentLength
}

var Module = fx.Module("mediaprobe",
	fx.Provide(
		fx.Annotate(New, fx.As(new(Prober))),
	),
)
