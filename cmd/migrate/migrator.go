package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	upSuffix         = ".up.sql"
	dropAllFile      = "000_drop_all.sql"
	consolidatedFile = "000_consolidated.sql"
)

// execer is the part of pgxpool.Pool the migrator uses.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type migrator struct {
	db  execer
	dir string
}

// migrations lists *.up.sql names without the suffix, in file order.
func (m *migrator) migrations() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", m.dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), upSuffix) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), upSuffix))
	}
	slices.Sort(names)
	return names, nil
}

func (m *migrator) ensureTable(ctx context.Context) error {
	_, err := m.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name       TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	return err
}

func (m *migrator) applied(ctx context.Context) (map[string]bool, error) {
	rows, err := m.db.Query(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(names))
	for _, n := range names {
		done[n] = true
	}
	return done, nil
}

func (m *migrator) runFile(ctx context.Context, file string) error {
	sql, err := os.ReadFile(filepath.Join(m.dir, file))
	if err != nil {
		return err
	}
	if _, err := m.db.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	return nil
}

func (m *migrator) mark(ctx context.Context, name string) error {
	_, err := m.db.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1) ON CONFLICT DO NOTHING`, name)
	return err
}

// up applies every migration not yet recorded.
func (m *migrator) up(ctx context.Context) error {
	if err := m.ensureTable(ctx); err != nil {
		return err
	}
	names, err := m.migrations()
	if err != nil {
		return err
	}
	done, err := m.applied(ctx)
	if err != nil {
		return err
	}

	count := 0
	for _, name := range names {
		if done[name] {
			continue
		}
		if err := m.runFile(ctx, name+upSuffix); err != nil {
			return err
		}
		if err := m.mark(ctx, name); err != nil {
			return err
		}
		count++
		slog.Info("migration applied", "migration", name)
	}
	slog.Info("migrations up to date", "applied", count, "total", len(names))
	return nil
}

func (m *migrator) dropAll(ctx context.Context) error {
	slog.Warn("dropping every table")
	return m.runFile(ctx, dropAllFile)
}

// consolidated loads the single-file schema and records every migration
// as applied so a later up is a no-op.
func (m *migrator) consolidated(ctx context.Context) error {
	if err := m.runFile(ctx, consolidatedFile); err != nil {
		return err
	}
	if err := m.ensureTable(ctx); err != nil {
		return err
	}
	names, err := m.migrations()
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := m.mark(ctx, name); err != nil {
			return err
		}
	}
	slog.Info("consolidated schema applied", "marked", len(names))
	return nil
}

func (m *migrator) status(ctx context.Context) error {
	if err := m.ensureTable(ctx); err != nil {
		return err
	}
	names, err := m.migrations()
	if err != nil {
		return err
	}
	done, err := m.applied(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		state := "pending"
		if done[name] {
			state = "applied"
		}
		fmt.Printf("%-8s %s\n", state, name)
	}
	return nil
}
