package repository

import (
	"context"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgFairRepository is the PostgreSQL implementation of FairRepository.
type PgFairRepository struct {
	pool *pgxpool.Pool
}

func NewPgFairRepository(pool *pgxpool.Pool) *PgFairRepository {
	return &PgFairRepository{pool: pool}
}

var _ FairRepository = (*PgFairRepository)(nil)

// List returns fairs by sort_order; heroOnly keeps the carousel ones.
func (r *PgFairRepository) List(ctx context.Context, heroOnly bool) ([]*model.Fair, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, full_name, description, image, hover_image, is_hero_featured, sort_order, created_at
		 FROM fairs
		 WHERE ($1 = false OR is_hero_featured)
		 ORDER BY sort_order ASC, created_at ASC`, heroOnly)
	if err != nil {
		return nil, wrap("fairs", err)
	}
	defer rows.Close()

	var out []*model.Fair
	for rows.Next() {
		var f model.Fair
		if err := rows.Scan(&f.ID, &f.Name, &f.FullName, &f.Description, &f.Image, &f.HoverImage,
			&f.IsHeroFeatured, &f.SortOrder, &f.CreatedAt); err != nil {
			return nil, wrap("fairs", err)
		}
		out = append(out, &f)
	}
	return out, wrap("fairs", rows.Err())
}

func (r *PgFairRepository) Create(ctx context.Context, f *model.Fair) error {
	return wrap("fairs", r.pool.QueryRow(ctx,
		`INSERT INTO fairs (name, full_name, description, image, hover_image, is_hero_featured, sort_order)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		f.Name, f.FullName, f.Description, f.Image, f.HoverImage, f.IsHeroFeatured, f.SortOrder,
	).Scan(&f.ID, &f.CreatedAt))
}

func (r *PgFairRepository) Update(ctx context.Context, f *model.Fair) error {
	return wrap("fairs", r.pool.QueryRow(ctx,
		`UPDATE fairs SET name=$1, full_name=$2, description=$3, image=$4, hover_image=$5,
		        is_hero_featured=$6, sort_order=$7
		 WHERE id=$8
		 RETURNING created_at`,
		f.Name, f.FullName, f.Description, f.Image, f.HoverImage, f.IsHeroFeatured, f.SortOrder, f.ID,
	).Scan(&f.CreatedAt))
}

func (r *PgFairRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM fairs WHERE id=$1`, id)
	if err != nil {
		return wrap("fairs", err)
	}
	return notFoundIfNone(tag)
}

func (r *PgFairRepository) Reorder(ctx context.Context, ids []string) error {
	return reorder(ctx, r.pool, "fairs", ids)
}
