package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	"github.com/minhpq/reddit-mirror-bot/internal/command"
	"github.com/minhpq/reddit-mirror-bot/internal/command/commandimpl"
	"github.com/minhpq/reddit-mirror-bot/internal/delivery"
	"github.com/minhpq/reddit-mirror-bot/internal/mediaprobe"
	_ "github.com/minhpq/reddit-mirror-bot/internal/migrations"
	"github.com/minhpq/reddit-mirror-bot/internal/poller"
	"github.com/minhpq/reddit-mirror-bot/internal/poller/pollerimpl"
	"github.com/minhpq/reddit-mirror-bot/internal/reddit"
	"github.com/minhpq/reddit-mirror-bot/internal/reddit/redditimpl"
	repositories "github.com/minhpq/reddit-mirror-bot/internal/repositories/fx"
	"github.com/minhpq/reddit-mirror-bot/internal/telegram"
	"github.com/minhpq/reddit-mirror-bot/internal/telegram/telegramimpl"
	"github.com/minhpq/reddit-mirror-bot/internal/tracker"
	"github.com/minhpq/reddit-mirror-bot/internal/youtube"
	"github.com/minhpq/reddit-mirror-bot/pkg/config"
	"github.com/minhpq/reddit-mirror-bot/pkg/logger"
	"github.com/minhpq/reddit-mirror-bot/pkg/pgx"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
	),
	fx.Provide(
		fx.Annotate(
			telegramimpl.New,
			fx.As(new(telegram.Client)),
		),
		fx.Annotate(
			redditimpl.New,
			fx.As(new(reddit.Client)),
		),
		fx.Annotate(
			pollerimpl.New,
			fx.As(new(poller.Client)),
		),
		fx.Annotate(
			commandimpl.New,
			fx.As(new(command.Client)),
		),
	),
	repositories.Module,
	tracker.Module,
	delivery.Module,
	mediaprobe.Module,
	youtube.Module,
	fx.Invoke(migrate),
	fx.Invoke(run),
)

func migrate(c *config.Config) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	db, err := sql.Open("postgres", c.GetDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	return goose.Up(db, filepath.Join(wd, "internal", "migrations"))
}

func run(lc fx.Lifecycle, log logger.Logger, cfg *config.Config, pClient poller.Client, cmdClient command.Client, tgClient telegram.Client) {
	var cancel context.CancelFunc

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())

			go startHttpServer(log, cfg)

			if err := pClient.ScheduleNewPostSweep(ctx); err != nil {
				return err
			}
			if err := pClient.ScheduleReconciliation(ctx); err != nil {
				return err
			}
			if err := pClient.ScheduleCleanup(ctx); err != nil {
				return err
			}

			go func() {
				if err := cmdClient.HandleCommand(ctx); err != nil && ctx.Err() == nil {
					log.Error("Command handler stopped", "error", err)
					tgClient.SendMessageToAdmin("Command handler stopped: " + err.Error())
				}
			}()

			return nil
		},
		OnStop: func(context.Context) error {
			if cancel != nil {
				cancel()
			}
			return nil
		},
	})
}

func startHttpServer(log logger.Logger, cfg *config.Config) {
	http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		healthCheckHandler(w, r, log)
	})

	log.Info(fmt.Sprintf("Starting server on :%d", cfg.App.Port))

	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.App.Port), nil); err != nil {
		log.Error("Server failed to start", "error", err)
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request, logger logger.Logger) {
	logger.Debug("Health check request received", "method", r.Method, "url", r.URL.String())
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		logger.Error("Failed to write response", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
