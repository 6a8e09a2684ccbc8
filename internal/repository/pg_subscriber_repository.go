package repository

import (
	"context"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

const subscriberColumns = `id, name, email, status, source, subscribed_at`

// PgSubscriberRepository is the PostgreSQL implementation of SubscriberRepository.
type PgSubscriberRepository struct {
	pool *pgxpool.Pool
}

func NewPgSubscriberRepository(pool *pgxpool.Pool) *PgSubscriberRepository {
	return &PgSubscriberRepository{pool: pool}
}

var _ SubscriberRepository = (*PgSubscriberRepository)(nil)

func scanSubscriber(row rowScanner) (*model.Subscriber, error) {
	var s model.Subscriber
	if err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Status, &s.Source, &s.SubscribedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PgSubscriberRepository) List(ctx context.Context) ([]*model.Subscriber, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+subscriberColumns+` FROM newsletter_subscribers ORDER BY subscribed_at DESC`)
	if err != nil {
		return nil, wrap("newsletter_subscribers", err)
	}
	defer rows.Close()

	var out []*model.Subscriber
	for rows.Next() {
		s, err := scanSubscriber(rows)
		if err != nil {
			return nil, wrap("newsletter_subscribers", err)
		}
		out = append(out, s)
	}
	return out, wrap("newsletter_subscribers", rows.Err())
}

// Create inserts s. A duplicate email surfaces as a unique violation.
func (r *PgSubscriberRepository) Create(ctx context.Context, s *model.Subscriber) error {
	return wrap("newsletter_subscribers", r.pool.QueryRow(ctx,
		`INSERT INTO newsletter_subscribers (name, email, status, source)
		 VALUES ($1, lower($2), $3, $4)
		 RETURNING id, email, subscribed_at`,
		s.Name, s.Email, s.Status, s.Source,
	).Scan(&s.ID, &s.Email, &s.SubscribedAt))
}

func (r *PgSubscriberRepository) UpdateStatus(ctx context.Context, id, status string) (*model.Subscriber, error) {
	s, err := scanSubscriber(r.pool.QueryRow(ctx,
		`UPDATE newsletter_subscribers SET status=$1 WHERE id=$2 RETURNING `+subscriberColumns,
		status, id))
	if err != nil {
		return nil, wrap("newsletter_subscribers", err)
	}
	return s, nil
}

func (r *PgSubscriberRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM newsletter_subscribers WHERE id=$1`, id)
	if err != nil {
		return wrap("newsletter_subscribers", err)
	}
	return notFoundIfNone(tag)
}
