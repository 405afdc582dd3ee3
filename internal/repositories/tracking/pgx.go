package tracking

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minhpq/reddit-mirror-bot/internal/domain"
	"github.com/minhpq/reddit-mirror-bot/internal/repositories"
	"github.com/minhpq/reddit-mirror-bot/pkg/logger"

	sq "github.com/Masterminds/squirrel"
)

type Pgx struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pool *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pool:   pool,
		logger: logger.WithComponent("TrackingRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

func (p *Pgx) Get(ctx context.Context, subreddit string, chatID int64) (*domain.Cursor, error) {
	query, args, err := repositories.SqBuilder.
		Select("subreddit", "chat_id", "last_checked", "last_post_id").
		From("submission_tracking").
		Where(sq.Eq{"subreddit": subreddit, "chat_id": chatID}).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	var cursor domain.Cursor
	err = p.pool.QueryRow(ctx, query, args...).
		Scan(&cursor.Subreddit, &cursor.ChatID, &cursor.LastChecked, &cursor.LastPostID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &cursor, nil
}

func (p *Pgx) Upsert(ctx context.Context, cursor domain.Cursor) error {
	query, args, err := repositories.SqBuilder.
		Insert("submission_tracking").
		Columns("subreddit", "chat_id", "last_checked", "last_post_id").
		Values(cursor.Subreddit, cursor.ChatID, cursor.LastChecked, cursor.LastPostID).
		Suffix(`ON CONFLICT (subreddit, chat_id) DO UPDATE SET
			last_checked = GREATEST(submission_tracking.last_checked, EXCLUDED.last_checked),
			last_post_id = CASE
				WHEN EXCLUDED.last_checked >= submission_tracking.last_checked THEN EXCLUDED.last_post_id
				ELSE submission_tracking.last_post_id
			END`).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = p.pool.Exec(ctx, query, args...)
	return err
}

func (p *Pgx) DeleteForChat(ctx context.Context, chatID int64) (int64, error) {
	query, args, err := repositories.SqBuilder.
		Delete("submission_tracking").
		Where(sq.Eq{"chat_id": chatID}).
		ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	result, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected(), nil
}
