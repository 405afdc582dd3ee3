package subscription

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minhpq/reddit-mirror-bot/internal/domain"
	"github.com/minhpq/reddit-mirror-bot/internal/repositories"
	"github.com/minhpq/reddit-mirror-bot/pkg/logger"

	sq "github.com/Masterminds/squirrel"
)

type PgxRepository struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func NewPgxRepository(pool *pgxpool.Pool, logger logger.Logger) *PgxRepository {
	return &PgxRepository{
		pool:   pool,
		logger: logger.WithComponent("SubscriptionRepo"),
	}
}

var _ Repository = (*PgxRepository)(nil)

func (r *PgxRepository) Create(ctx context.Context, sub domain.Subscription) error {
	query, args, err := repositories.SqBuilder.
		Insert("subscriptions").
		Columns("subreddit", "chat_id", "thread_id", "per_post_thread").
		Values(sub.Subreddit, sub.ChatID, sub.ThreadID, sub.PerPostThread).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *PgxRepository) Delete(ctx context.Context, subreddit string, chatID, threadID int64) error {
	query, args, err := repositories.SqBuilder.
		Delete("subscriptions").
		Where(sq.Eq{"subreddit": subreddit, "chat_id": chatID, "thread_id": threadID}).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *PgxRepository) DeleteByID(ctx context.Context, id int) error {
	query, args, err := repositories.SqBuilder.
		Delete("subscriptions").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *PgxRepository) GetAll(ctx context.Context) ([]*domain.Subscription, error) {
	query, args, err := repositories.SqBuilder.
		Select("id", "subreddit", "chat_id", "thread_id", "per_post_thread", "failed_attempts", "created_at").
		From("subscriptions").
		OrderBy("subreddit ASC, chat_id ASC").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	return r.scanRows(ctx, query, args)
}

func (r *PgxRepository) GetByChatID(ctx context.Context, chatID int64) ([]*domain.Subscription, error) {
	query, args, err := repositories.SqBuilder.
		Select("id", "subreddit", "chat_id", "thread_id", "per_post_thread", "failed_attempts", "created_at").
		From("subscriptions").
		Where(sq.Eq{"chat_id": chatID}).
		OrderBy("subreddit ASC").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	return r.scanRows(ctx, query, args)
}

func (r *PgxRepository) IncrementFailedAttempts(ctx context.Context, subreddit string, chatID int64) error {
	query, args, err := repositories.SqBuilder.
		Update("subscriptions").
		Set("failed_attempts", sq.Expr("failed_attempts + 1")).
		Where(sq.Eq{"subreddit": subreddit, "chat_id": chatID}).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return err
}

func (r *PgxRepository) ResetFailedAttempts(ctx context.Context, subreddit string, chatID int64) error {
	query, args, err := repositories.SqBuilder.
		Update("subscriptions").
		Set("failed_attempts", 0).
		Where(sq.Eq{"subreddit": subreddit, "chat_id": chatID}).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return err
}

func (r *PgxRepository) scanRows(ctx context.Context, query string, args []interface{}) ([]*domain.Subscription, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*domain.Subscription
	for rows.Next() {
		var sub domain.Subscription
		if err := rows.Scan(&sub.ID, &sub.Subreddit, &sub.ChatID, &sub.ThreadID,
			&sub.PerPostThread, &sub.FailedAttempts, &sub.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, &sub)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return subs, nil
}
