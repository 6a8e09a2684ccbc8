package repository

import (
	"context"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

const registrationColumns = `id, event_id::text, event_name, user_name, email, phone, status, created_at`

// PgRegistrationRepository is the PostgreSQL implementation of RegistrationRepository.
type PgRegistrationRepository struct {
	pool *pgxpool.Pool
}

func NewPgRegistrationRepository(pool *pgxpool.Pool) *PgRegistrationRepository {
	return &PgRegistrationRepository{pool: pool}
}

var _ RegistrationRepository = (*PgRegistrationRepository)(nil)

func scanRegistration(row rowScanner) (*model.Registration, error) {
	var reg model.Registration
	if err := row.Scan(&reg.ID, &reg.EventID, &reg.EventName, &reg.UserName, &reg.Email,
		&reg.Phone, &reg.Status, &reg.CreatedAt); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *PgRegistrationRepository) List(ctx context.Context) ([]*model.Registration, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+registrationColumns+` FROM registrations ORDER BY created_at DESC`)
	if err != nil {
		return nil, wrap("registrations", err)
	}
	defer rows.Close()

	var out []*model.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, wrap("registrations", err)
		}
		out = append(out, reg)
	}
	return out, wrap("registrations", rows.Err())
}

// Create inserts reg as given. event_id is written through unchanged so
// the caller decides whether the link is kept.
func (r *PgRegistrationRepository) Create(ctx context.Context, reg *model.Registration) error {
	return wrap("registrations", r.pool.QueryRow(ctx,
		`INSERT INTO registrations (event_id, event_name, user_name, email, phone, status)
		 VALUES ($1::uuid, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		reg.EventID, reg.EventName, reg.UserName, reg.Email, reg.Phone, reg.Status,
	).Scan(&reg.ID, &reg.CreatedAt))
}

func (r *PgRegistrationRepository) UpdateStatus(ctx context.Context, id, status string) (*model.Registration, error) {
	reg, err := scanRegistration(r.pool.QueryRow(ctx,
		`UPDATE registrations SET status=$1 WHERE id=$2 RETURNING `+registrationColumns, status, id))
	if err != nil {
		return nil, wrap("registrations", err)
	}
	return reg, nil
}
