package repository

import (
	"context"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

const partnerColumns = `id, name, category, logo, COALESCE(website, ''), phone, description,
	is_active, sort_order, created_at`

// PgPartnerRepository is the PostgreSQL implementation of PartnerRepository.
type PgPartnerRepository struct {
	pool *pgxpool.Pool
}

func NewPgPartnerRepository(pool *pgxpool.Pool) *PgPartnerRepository {
	return &PgPartnerRepository{pool: pool}
}

var _ PartnerRepository = (*PgPartnerRepository)(nil)

// List returns partners by sort_order; activeOnly hides inactive ones.
func (r *PgPartnerRepository) List(ctx context.Context, activeOnly bool) ([]*model.Partner, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+partnerColumns+` FROM partners
		 WHERE ($1 = false OR is_active)
		 ORDER BY sort_order ASC, created_at ASC`, activeOnly)
	if err != nil {
		return nil, wrap("partners", err)
	}
	defer rows.Close()

	var out []*model.Partner
	for rows.Next() {
		var p model.Partner
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Logo, &p.Website, &p.Phone,
			&p.Description, &p.IsActive, &p.SortOrder, &p.CreatedAt); err != nil {
			return nil, wrap("partners", err)
		}
		out = append(out, &p)
	}
	return out, wrap("partners", rows.Err())
}

func (r *PgPartnerRepository) Create(ctx context.Context, p *model.Partner) error {
	return wrap("partners", r.pool.QueryRow(ctx,
		`INSERT INTO partners (name, category, logo, website, phone, description, is_active, sort_order)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)
		 RETURNING id, created_at`,
		p.Name, p.Category, p.Logo, p.Website, p.Phone, p.Description, p.IsActive, p.SortOrder,
	).Scan(&p.ID, &p.CreatedAt))
}

func (r *PgPartnerRepository) Update(ctx context.Context, p *model.Partner) error {
	return wrap("partners", r.pool.QueryRow(ctx,
		`UPDATE partners SET name=$1, category=$2, logo=$3, website=NULLIF($4, ''), phone=$5,
		        description=$6, is_active=$7, sort_order=$8
		 WHERE id=$9
		 RETURNING created_at`,
		p.Name, p.Category, p.Logo, p.Website, p.Phone, p.Description, p.IsActive, p.SortOrder, p.ID,
	).Scan(&p.CreatedAt))
}

func (r *PgPartnerRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM partners WHERE id=$1`, id)
	if err != nil {
		return wrap("partners", err)
	}
	return notFoundIfNone(tag)
}

func (r *PgPartnerRepository) Reorder(ctx context.Context, ids []string) error {
	return reorder(ctx, r.pool, "partners", ids)
}
