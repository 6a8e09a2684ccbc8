package repository

import (
	"context"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

const messageColumns = `id, sender, email, COALESCE(phone, ''), subject, content, source, status, created_at`

// PgMessageRepository is the PostgreSQL implementation of MessageRepository.
type PgMessageRepository struct {
	pool *pgxpool.Pool
}

// NewPgMessageRepository creates a PgMessageRepository backed by the given pool.
func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

var _ MessageRepository = (*PgMessageRepository)(nil)

func scanMessage(row rowScanner) (*model.Message, error) {
	var m model.Message
	if err := row.Scan(&m.ID, &m.Sender, &m.Email, &m.Phone, &m.Subject, &m.Content,
		&m.Source, &m.Status, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgMessageRepository) List(ctx context.Context) ([]*model.Message, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+messageColumns+` FROM messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, wrap("messages", err)
	}
	defer rows.Close()

	var out []*model.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, wrap("messages", err)
		}
		out = append(out, m)
	}
	return out, wrap("messages", rows.Err())
}

// Create inserts a new contact message into the database.
func (r *PgMessageRepository) Create(ctx context.Context, m *model.Message) error {
	return wrap("messages", r.pool.QueryRow(ctx,
		`INSERT INTO messages (sender, email, phone, subject, content, source, status)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)
		 RETURNING id, created_at`,
		m.Sender, m.Email, m.Phone, m.Subject, m.Content, m.Source, m.Status,
	).Scan(&m.ID, &m.CreatedAt))
}

// UpdateStatus changes the status of a message.
func (r *PgMessageRepository) UpdateStatus(ctx context.Context, id, status string) (*model.Message, error) {
	m, err := scanMessage(r.pool.QueryRow(ctx,
		`UPDATE messages SET status=$1 WHERE id=$2 RETURNING `+messageColumns, status, id))
	if err != nil {
		return nil, wrap("messages", err)
	}
	return m, nil
}

func (r *PgMessageRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id=$1`, id)
	if err != nil {
		return wrap("messages", err)
	}
	return notFoundIfNone(tag)
}
