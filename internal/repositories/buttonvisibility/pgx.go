package buttonvisibility

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minhpq/reddit-mirror-bot/internal/repositories"
	"github.com/minhpq/reddit-mirror-bot/pkg/logger"
)

type Pgx struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pool *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pool:   pool,
		logger: logger.WithComponent("ButtonVisibilityRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

func (p *Pgx) GetAll(ctx context.Context) (map[string]bool, error) {
	query, _, err := repositories.SqBuilder.
		Select("button_name", "is_visible").
		From("button_visibility").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	visibility := make(map[string]bool)
	for rows.Next() {
		var name string
		var visible bool
		if err := rows.Scan(&name, &visible); err != nil {
			return nil, err
		}
		visibility[name] = visible
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return visibility, nil
}

func (p *Pgx) Set(ctx context.Context, label string, visible bool) error {
	query, args, err := repositories.SqBuilder.
		Insert("button_visibility").
		Columns("button_name", "is_visible").
		Values(label, visible).
		Suffix("ON CONFLICT (button_name) DO UPDATE SET is_visible = EXCLUDED.is_visible").
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = p.pool.Exec(ctx, query, args...)
	return err
}
