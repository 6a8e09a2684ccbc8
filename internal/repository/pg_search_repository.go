package repository

import (
	"context"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

const searchLimit = 20

// PgSearchRepository searches published events and news by case-insensitive substring.
type PgSearchRepository struct {
	pool *pgxpool.Pool
}

func NewPgSearchRepository(pool *pgxpool.Pool) *PgSearchRepository {
	return &PgSearchRepository{pool: pool}
}

var _ SearchRepository = (*PgSearchRepository)(nil)

func (r *PgSearchRepository) Search(ctx context.Context, term string) (*model.SearchResult, error) {
	pattern := likePattern(term)
	res := &model.SearchResult{Events: []model.SearchHit{}, News: []model.SearchHit{}}

	rows, err := r.pool.Query(ctx,
		`SELECT id, title, description, to_char(date, 'YYYY-MM-DD'), cover_image, location
		 FROM events
		 WHERE status = 'published'
		   AND (title ILIKE $1 OR description ILIKE $1 OR location ILIKE $1 OR category ILIKE $1)
		 ORDER BY date ASC
		 LIMIT $2`, pattern, searchLimit)
	if err != nil {
		return nil, wrap("events", err)
	}
	for rows.Next() {
		h := model.SearchHit{Type: "event"}
		if err := rows.Scan(&h.ID, &h.Title, &h.Description, &h.Date, &h.Image, &h.Location); err != nil {
			rows.Close()
			return nil, wrap("events", err)
		}
		res.Events = append(res.Events, h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrap("events", err)
	}

	rows, err = r.pool.Query(ctx,
		`SELECT id, title, summary, to_char(created_at, 'YYYY-MM-DD'), image
		 FROM news
		 WHERE status = 'published'
		   AND (title ILIKE $1 OR summary ILIKE $1 OR content ILIKE $1)
		 ORDER BY created_at DESC
		 LIMIT $2`, pattern, searchLimit)
	if err != nil {
		return nil, wrap("news", err)
	}
	defer rows.Close()
	for rows.Next() {
		h := model.SearchHit{Type: "news"}
		if err := rows.Scan(&h.ID, &h.Title, &h.Description, &h.Date, &h.Image); err != nil {
			return nil, wrap("news", err)
		}
		res.News = append(res.News, h)
	}
	return res, wrap("news", rows.Err())
}
