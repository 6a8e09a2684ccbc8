package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a requested record does not exist in the database.
var ErrNotFound = errors.New("not found")

// SQLSTATE codes the callers care about.
const (
	CodeUniqueViolation           = "23505"
	CodeUndefinedTable            = "42P01"
	CodeInvalidTextRepresentation = "22P02"
)

// Error is a backend failure carrying the machine-readable SQLSTATE.
type Error struct {
	Code    string
	Message string
	Table   string
	err     error
}

func (e *Error) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Table, e.Message, e.Code)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

func (e *Error) Unwrap() error { return e.err }

// wrap normalizes a pgx error: no rows becomes ErrNotFound and server
// errors become *Error. nil stays nil. A key that is not a valid UUID
// (22P02) cannot name a row, so it is reported as ErrNotFound as well.
func wrap(table string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == CodeInvalidTextRepresentation {
			return fmt.Errorf("%s: %s: %w", table, pgErr.Message, ErrNotFound)
		}
		return &Error{Code: pgErr.Code, Message: pgErr.Message, Table: table, err: err}
	}
	return err
}

// Code returns the SQLSTATE of err, or "" when err is not a backend error.
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsUniqueViolation reports whether err is a unique-constraint violation.
func IsUniqueViolation(err error) bool { return Code(err) == CodeUniqueViolation }

// IsTableMissing reports whether err says the table does not exist.
func IsTableMissing(err error) bool { return Code(err) == CodeUndefinedTable }

func notFoundIfNone(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
