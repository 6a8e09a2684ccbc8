package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool は PostgreSQL 接続プールを生成する
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// reorder rewrites sort_order to follow ids inside one transaction.
// table is always a package constant, never user input.
func reorder(ctx context.Context, pool *pgxpool.Pool, table string, ids []string) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return wrap(table, err)
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf(`UPDATE %s SET sort_order=$1 WHERE id=$2`, table)
	for i, id := range ids {
		if _, err := tx.Exec(ctx, query, i, id); err != nil {
			return wrap(table, err)
		}
	}
	return wrap(table, tx.Commit(ctx))
}

// likePattern escapes LIKE metacharacters and wraps term in %...%.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}
