package repository

import (
	"context"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

const newsColumns = `id, title, summary, content, image, author, status, created_at, updated_at`

// PgNewsRepository is the PostgreSQL implementation of NewsRepository.
type PgNewsRepository struct {
	pool *pgxpool.Pool
}

// NewPgNewsRepository creates a PgNewsRepository backed by the given pool.
func NewPgNewsRepository(pool *pgxpool.Pool) *PgNewsRepository {
	return &PgNewsRepository{pool: pool}
}

var _ NewsRepository = (*PgNewsRepository)(nil)

func scanNews(row rowScanner) (*model.NewsArticle, error) {
	var n model.NewsArticle
	if err := row.Scan(&n.ID, &n.Title, &n.Summary, &n.Content, &n.Image, &n.Author,
		&n.Status, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *PgNewsRepository) query(ctx context.Context, sql string, args ...any) ([]*model.NewsArticle, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrap("news", err)
	}
	defer rows.Close()

	var out []*model.NewsArticle
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, wrap("news", err)
		}
		out = append(out, n)
	}
	return out, wrap("news", rows.Err())
}

func (r *PgNewsRepository) List(ctx context.Context) ([]*model.NewsArticle, error) {
	return r.query(ctx, `SELECT `+newsColumns+` FROM news ORDER BY created_at DESC`)
}

func (r *PgNewsRepository) ListPublished(ctx context.Context) ([]*model.NewsArticle, error) {
	return r.query(ctx, `SELECT `+newsColumns+` FROM news WHERE status = 'published' ORDER BY created_at DESC`)
}

func (r *PgNewsRepository) GetByID(ctx context.Context, id string) (*model.NewsArticle, error) {
	n, err := scanNews(r.pool.QueryRow(ctx, `SELECT `+newsColumns+` FROM news WHERE id = $1`, id))
	if err != nil {
		return nil, wrap("news", err)
	}
	return n, nil
}

func (r *PgNewsRepository) Create(ctx context.Context, n *model.NewsArticle) error {
	return wrap("news", r.pool.QueryRow(ctx,
		`INSERT INTO news (title, summary, content, image, author, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		n.Title, n.Summary, n.Content, n.Image, n.Author, n.Status,
	).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt))
}

func (r *PgNewsRepository) Update(ctx context.Context, n *model.NewsArticle) error {
	return wrap("news", r.pool.QueryRow(ctx,
		`UPDATE news SET title=$1, summary=$2, content=$3, image=$4, author=$5, status=$6, updated_at=NOW()
		 WHERE id=$7
		 RETURNING created_at, updated_at`,
		n.Title, n.Summary, n.Content, n.Image, n.Author, n.Status, n.ID,
	).Scan(&n.CreatedAt, &n.UpdatedAt))
}

func (r *PgNewsRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM news WHERE id=$1`, id)
	if err != nil {
		return wrap("news", err)
	}
	return notFoundIfNone(tag)
}
