package repository

import (
	"context"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

const calendarColumns = `id, days, month, year, event_name, image, sort_order, created_at`

// PgCalendarRepository is the PostgreSQL implementation of CalendarRepository.
type PgCalendarRepository struct {
	pool *pgxpool.Pool
}

// NewPgCalendarRepository creates a PgCalendarRepository backed by the given pool.
func NewPgCalendarRepository(pool *pgxpool.Pool) *PgCalendarRepository {
	return &PgCalendarRepository{pool: pool}
}

var _ CalendarRepository = (*PgCalendarRepository)(nil)

func scanCalendar(row rowScanner) (*model.CalendarEntry, error) {
	var c model.CalendarEntry
	if err := row.Scan(&c.ID, &c.Days, &c.Month, &c.Year, &c.EventName, &c.Image,
		&c.SortOrder, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PgCalendarRepository) List(ctx context.Context) ([]*model.CalendarEntry, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+calendarColumns+` FROM calendar_dates ORDER BY sort_order ASC, created_at ASC`)
	if err != nil {
		return nil, wrap("calendar_dates", err)
	}
	defer rows.Close()

	var out []*model.CalendarEntry
	for rows.Next() {
		c, err := scanCalendar(rows)
		if err != nil {
			return nil, wrap("calendar_dates", err)
		}
		out = append(out, c)
	}
	return out, wrap("calendar_dates", rows.Err())
}

func (r *PgCalendarRepository) GetByID(ctx context.Context, id string) (*model.CalendarEntry, error) {
	c, err := scanCalendar(r.pool.QueryRow(ctx, `SELECT `+calendarColumns+` FROM calendar_dates WHERE id=$1`, id))
	if err != nil {
		return nil, wrap("calendar_dates", err)
	}
	return c, nil
}

func (r *PgCalendarRepository) Create(ctx context.Context, c *model.CalendarEntry) error {
	return wrap("calendar_dates", r.pool.QueryRow(ctx,
		`INSERT INTO calendar_dates (days, month, year, event_name, image, sort_order)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		c.Days, c.Month, c.Year, c.EventName, c.Image, c.SortOrder,
	).Scan(&c.ID, &c.CreatedAt))
}

func (r *PgCalendarRepository) Update(ctx context.Context, c *model.CalendarEntry) error {
	return wrap("calendar_dates", r.pool.QueryRow(ctx,
		`UPDATE calendar_dates SET days=$1, month=$2, year=$3, event_name=$4, image=$5, sort_order=$6
		 WHERE id=$7
		 RETURNING created_at`,
		c.Days, c.Month, c.Year, c.EventName, c.Image, c.SortOrder, c.ID,
	).Scan(&c.CreatedAt))
}

func (r *PgCalendarRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM calendar_dates WHERE id=$1`, id)
	if err != nil {
		return wrap("calendar_dates", err)
	}
	return notFoundIfNone(tag)
}

// Reorder assigns sort_order 0..n-1 following ids.
func (r *PgCalendarRepository) Reorder(ctx context.Context, ids []string) error {
	return reorder(ctx, r.pool, "calendar_dates", ids)
}
