package repository

import (
	"context"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

const eventColumns = `id, title, to_char(date, 'YYYY-MM-DD'), location, category, description,
	cover_image, COALESCE(video_url, ''), gallery_images, is_featured, status, created_at, updated_at`

// PgEventRepository is the PostgreSQL implementation of EventRepository.
type PgEventRepository struct {
	pool *pgxpool.Pool
}

// NewPgEventRepository creates a PgEventRepository backed by the given pool.
func NewPgEventRepository(pool *pgxpool.Pool) *PgEventRepository {
	return &PgEventRepository{pool: pool}
}

var _ EventRepository = (*PgEventRepository)(nil)

func scanEvent(row rowScanner) (*model.Event, error) {
	var e model.Event
	if err := row.Scan(&e.ID, &e.Title, &e.Date, &e.Location, &e.Category, &e.Description,
		&e.CoverImage, &e.VideoURL, &e.GalleryImages, &e.IsFeatured, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	if e.GalleryImages == nil {
		e.GalleryImages = []string{}
	}
	return &e, nil
}

func (r *PgEventRepository) query(ctx context.Context, sql string, args ...any) ([]*model.Event, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrap("events", err)
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, wrap("events", err)
		}
		events = append(events, e)
	}
	return events, wrap("events", rows.Err())
}

// List returns every event, newest date first.
func (r *PgEventRepository) List(ctx context.Context) ([]*model.Event, error) {
	return r.query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY date DESC`)
}

// ListPublished returns published events by ascending date, optionally
// restricted to one category.
func (r *PgEventRepository) ListPublished(ctx context.Context, filter model.EventFilter) ([]*model.Event, error) {
	if filter.Category != "" {
		return r.query(ctx,
			`SELECT `+eventColumns+` FROM events WHERE status = 'published' AND category = $1 ORDER BY date ASC`,
			filter.Category)
	}
	return r.query(ctx, `SELECT `+eventColumns+` FROM events WHERE status = 'published' ORDER BY date ASC`)
}

func (r *PgEventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	e, err := scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		return nil, wrap("events", err)
	}
	return e, nil
}

// Create inserts e and fills the generated id and timestamps.
func (r *PgEventRepository) Create(ctx context.Context, e *model.Event) error {
	return wrap("events", r.pool.QueryRow(ctx,
		`INSERT INTO events (title, date, location, category, description, cover_image, video_url,
		                     gallery_images, is_featured, status)
		 VALUES ($1, $2::date, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10)
		 RETURNING id, created_at, updated_at`,
		e.Title, e.Date, e.Location, e.Category, e.Description, e.CoverImage, e.VideoURL,
		galleryOrEmpty(e.GalleryImages), e.IsFeatured, e.Status,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt))
}

// Update overwrites every editable column of e.
func (r *PgEventRepository) Update(ctx context.Context, e *model.Event) error {
	return wrap("events", r.pool.QueryRow(ctx,
		`UPDATE events SET title=$1, date=$2::date, location=$3, category=$4, description=$5,
		        cover_image=$6, video_url=NULLIF($7, ''), gallery_images=$8, is_featured=$9,
		        status=$10, updated_at=NOW()
		 WHERE id=$11
		 RETURNING created_at, updated_at`,
		e.Title, e.Date, e.Location, e.Category, e.Description, e.CoverImage, e.VideoURL,
		galleryOrEmpty(e.GalleryImages), e.IsFeatured, e.Status, e.ID,
	).Scan(&e.CreatedAt, &e.UpdatedAt))
}

func (r *PgEventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return wrap("events", err)
	}
	return notFoundIfNone(tag)
}

func galleryOrEmpty(images []string) []string {
	if images == nil {
		return []string{}
	}
	return images
}
