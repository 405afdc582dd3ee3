package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upInit, downInit)
}

func upInit(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS subscriptions (
			id SERIAL PRIMARY KEY,
			subreddit VARCHAR NOT NULL,
			chat_id BIGINT NOT NULL,
			thread_id BIGINT NOT NULL DEFAULT 0,
			per_post_thread BOOLEAN NOT NULL DEFAULT FALSE,
			failed_attempts INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			UNIQUE (subreddit, chat_id, thread_id)
		);

		CREATE TABLE IF NOT EXISTS submission_tracking (
			subreddit VARCHAR NOT NULL,
			chat_id BIGINT NOT NULL,
			last_checked TIMESTAMP WITH TIME ZONE NOT NULL,
			last_post_id VARCHAR NOT NULL DEFAULT '',
			PRIMARY KEY (subreddit, chat_id)
		);

		CREATE TABLE IF NOT EXISTS button_visibility (
			button_name VARCHAR PRIMARY KEY,
			is_visible BOOLEAN NOT NULL DEFAULT TRUE
		);

		INSERT INTO button_visibility (button_name, is_visible) VALUES
			('Reddit Post', TRUE),
			('Watch Video', TRUE),
			('YouTube Link', TRUE),
			('Image Gallery', TRUE),
			('Web Link', TRUE)
		ON CONFLICT (button_name) DO NOTHING;
	`)
	return err
}

func downInit(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.Exec(`
		DROP TABLE IF EXISTS button_visibility;
		DROP TABLE IF EXISTS submission_tracking;
		DROP TABLE IF EXISTS subscriptions;
	`)
	return err
}
