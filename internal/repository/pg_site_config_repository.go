package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgSiteConfigRepository is the PostgreSQL implementation of SiteConfigRepository.
type PgSiteConfigRepository struct {
	pool *pgxpool.Pool
}

func NewPgSiteConfigRepository(pool *pgxpool.Pool) *PgSiteConfigRepository {
	return &PgSiteConfigRepository{pool: pool}
}

var _ SiteConfigRepository = (*PgSiteConfigRepository)(nil)

func (r *PgSiteConfigRepository) Get(ctx context.Context, key string) (*model.SiteConfig, error) {
	var c model.SiteConfig
	err := r.pool.QueryRow(ctx,
		`SELECT key, value, updated_at FROM site_config WHERE key=$1`, key,
	).Scan(&c.Key, &c.Value, &c.UpdatedAt)
	if err != nil {
		err = wrap("site_config", err)
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// Upsert replaces the whole value stored under key.
func (r *PgSiteConfigRepository) Upsert(ctx context.Context, key string, value json.RawMessage) (*model.SiteConfig, error) {
	var c model.SiteConfig
	err := r.pool.QueryRow(ctx,
		`INSERT INTO site_config (key, value, updated_at)
		 VALUES ($1, $2::jsonb, NOW())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
		 RETURNING key, value, updated_at`,
		key, string(value),
	).Scan(&c.Key, &c.Value, &c.UpdatedAt)
	if err != nil {
		return nil, wrap("site_config", err)
	}
	return &c, nil
}
