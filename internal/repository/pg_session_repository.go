package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgSessionRepository stores sessions keyed by the SHA-256 of the token,
// so the table never holds a usable cookie value.
type PgSessionRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPgSessionRepository は PgSessionRepository を生成する
func NewPgSessionRepository(pool *pgxpool.Pool) *PgSessionRepository {
	return &PgSessionRepository{pool: pool, now: time.Now}
}

var _ SessionRepository = (*PgSessionRepository)(nil)

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (r *PgSessionRepository) Create(ctx context.Context, s *model.Session) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sessions (token_hash, user_id, created_at, expires_at) VALUES ($1, $2, $3, $4)`,
		hashToken(s.Token), s.UserID, s.CreatedAt, s.ExpiresAt)
	return wrap("sessions", err)
}

// FindByToken は有効期限内のセッションのみ返す。期限切れは ErrNotFound
func (r *PgSessionRepository) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	s := &model.Session{Token: token}
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, created_at, expires_at FROM sessions
		 WHERE token_hash = $1 AND expires_at > $2`,
		hashToken(token), r.now()).Scan(&s.UserID, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		return nil, wrap("sessions", err)
	}
	return s, nil
}

func (r *PgSessionRepository) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, hashToken(token))
	return wrap("sessions", err)
}

// DeleteExpired removes sessions that expired before now and reports how many.
func (r *PgSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, wrap("sessions", err)
	}
	return tag.RowsAffected(), nil
}
