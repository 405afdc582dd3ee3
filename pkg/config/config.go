package config

import (
	"fmt"
	"log"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT"`
		Host    string `env:"POSTGRES_HOST"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
	Telegram struct {
		Admin int64  `env:"TELEGRAM_ADMIN"`
		Token string `env:"TELEGRAM_TOKEN"`
	}
	Reddit struct {
		BaseURL   string `env:"REDDIT_BASE_URL" env-default:"https://www.reddit.com"`
		UserAgent string `env:"REDDIT_USER_AGENT" env-default:"reddit-mirror-bot/1.0"`
		PageLimit int    `env:"REDDIT_PAGE_LIMIT" env-default:"10"`
	}
	Poller struct {
		SweepMinutes   int `env:"POLLER_SWEEP_MINUTES" env-default:"2"`
		ReconcileHours int `env:"POLLER_RECONCILE_HOURS" env-default:"3"`
		Workers        int `env:"POLLER_WORKERS" env-default:"5"`
	}
}

var (
	once sync.Once
	cfg  *Config
)

func (c *Config) GetDSN() string {
	return fmt.Sprintf("dbname=%s user=%s password=%s host=%s port=%d sslmode=%s",
		c.Postgres.Name, c.Postgres.User, c.Postgres.Pass, c.Postgres.Host, c.Postgres.Port, c.Postgres.SslMode,
	)
}

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}
