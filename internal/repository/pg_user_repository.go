package repository

import (
	"context"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgUserRepository は UserRepository の PostgreSQL 実装
type PgUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgUserRepository は PgUserRepository を生成する
func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

var _ UserRepository = (*PgUserRepository)(nil)

func (r *PgUserRepository) find(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, created_at FROM users WHERE `+where, arg,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, wrap("users", err)
	}
	return &u, nil
}

// FindByID は ID でユーザーを取得する
func (r *PgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.find(ctx, "id = $1", id)
}

// FindByEmail はメールアドレス（大文字小文字を区別しない）でユーザーを取得する
func (r *PgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.find(ctx, "lower(email) = lower($1)", email)
}

// Create はユーザーを作成する
func (r *PgUserRepository) Create(ctx context.Context, u *model.User) error {
	return wrap("users", r.pool.QueryRow(ctx,
		`INSERT INTO users (email, name, password_hash)
		 VALUES (lower($1), $2, $3)
		 RETURNING id, email, created_at`,
		u.Email, u.Name, u.PasswordHash,
	).Scan(&u.ID, &u.Email, &u.CreatedAt))
}

// IsAdmin reports whether email is listed in admin_users.
func (r *PgUserRepository) IsAdmin(ctx context.Context, email string) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM admin_users WHERE lower(email) = lower($1))`, email,
	).Scan(&ok)
	return ok, wrap("admin_users", err)
}

// GrantAdmin lists email in admin_users. Granting twice is a no-op.
func (r *PgUserRepository) GrantAdmin(ctx context.Context, email string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO admin_users (email) VALUES (lower($1)) ON CONFLICT (email) DO NOTHING`, email)
	return wrap("admin_users", err)
}
