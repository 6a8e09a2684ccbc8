package realtime

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Channel is the NOTIFY channel the notify_change trigger publishes on.
const Channel = "realtime_changes"

// Notifier is the part of a dedicated Postgres connection the listener uses.
type Notifier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close(ctx context.Context) error
}

// PgListener feeds a Broker from LISTEN realtime_changes. It owns one
// connection outside the pool and reconnects after failures.
type PgListener struct {
	broker     *Broker
	retryDelay time.Duration
	dial       func(ctx context.Context) (Notifier, error)
}

// NewPgListener creates a listener connecting with connString.
func NewPgListener(connString string, broker *Broker) *PgListener {
	return &PgListener{
		broker:     broker,
		retryDelay: 3 * time.Second,
		dial: func(ctx context.Context) (Notifier, error) {
			conn, err := pgx.Connect(ctx, connString)
			if err != nil {
				return nil, err
			}
			return conn, nil
		},
	}
}

// Run listens until ctx is done. Connection loss is reported as
// CHANNEL_ERROR and recovery as SUBSCRIBED.
func (l *PgListener) Run(ctx context.Context) error {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			l.broker.SetStatus(StatusClosed)
			return nil
		}
		slog.Error("realtime listener disconnected", "error", err, "retry_in", l.retryDelay)
		l.broker.SetStatus(StatusChannelError)

		select {
		case <-ctx.Done():
			l.broker.SetStatus(StatusClosed)
			return nil
		case <-time.After(l.retryDelay):
		}
	}
}

func (l *PgListener) listen(ctx context.Context) error {
	conn, err := l.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{Channel}.Sanitize()); err != nil {
		return err
	}
	l.broker.SetStatus(StatusSubscribed)

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		if n.Channel != Channel {
			continue
		}
		c, err := ParseChange([]byte(n.Payload))
		if err != nil {
			slog.Warn("realtime listener skipped payload", "error", err)
			continue
		}
		if c.Truncated {
			if err := reload(ctx, conn, &c); err != nil {
				if ctx.Err() != nil {
					return err
				}
				slog.Warn("realtime listener could not reload row", "table", c.Table, "error", err)
			}
		}
		l.broker.Publish(c)
	}
}

// reload replaces the slim record of a truncated change with the full row.
// Deletes keep their slim old_record since the row is gone.
func reload(ctx context.Context, q Notifier, c *Change) error {
	if c.Type == Delete {
		return nil
	}
	id, ok := c.Field("id")
	if !ok {
		return errors.New("truncated change without id")
	}
	var row []byte
	query := "SELECT to_jsonb(t) FROM " + pgx.Identifier{c.Table}.Sanitize() + " t WHERE t.id = $1"
	if err := q.QueryRow(ctx, query, id).Scan(&row); err != nil {
		return err
	}
	c.Record = row
	c.Truncated = false
	return nil
}
