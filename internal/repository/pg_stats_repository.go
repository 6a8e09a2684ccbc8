package repository

import (
	"context"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStatsRepository computes dashboard counters in a single round trip.
type PgStatsRepository struct {
	pool *pgxpool.Pool
}

func NewPgStatsRepository(pool *pgxpool.Pool) *PgStatsRepository {
	return &PgStatsRepository{pool: pool}
}

var _ StatsRepository = (*PgStatsRepository)(nil)

func (r *PgStatsRepository) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	var s model.DashboardStats
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM events),
			(SELECT COUNT(*) FROM news WHERE status = 'published'),
			(SELECT COUNT(*) FROM registrations WHERE status = 'pending'),
			(SELECT COUNT(*) FROM messages WHERE status = 'unread'),
			(SELECT COUNT(*) FROM newsletter_subscribers WHERE status = 'active'),
			(SELECT COUNT(*) FROM chat_sessions WHERE status = 'active')`,
	).Scan(&s.Events, &s.PublishedNews, &s.PendingRegistrations, &s.UnreadMessages,
		&s.ActiveSubscribers, &s.ActiveChats)
	if err != nil {
		return nil, wrap("stats", err)
	}
	return &s, nil
}
