// Package repository holds the Postgres persistence of every domain entity.
// Each repository is an interface plus a Postgres implementation; lookups
// that find nothing return nil, nil.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

// ErrDuplicate is returned when an insert hits a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

// psql builds $n-placeholder statements for the dynamic listing queries.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Page is a 1-based page request.
type Page struct {
	Page int
	Size int
}

func (p Page) limitOffset() (uint64, uint64) {
	page, size := p.Page, p.Size
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 15
	}
	return uint64(size), uint64((page - 1) * size)
}

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func likePattern(s string) string {
	return "%" + strings.TrimSpace(s) + "%"
}

// withTx runs fn in a transaction, rolling back when fn fails.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// count runs a squirrel COUNT query.
func count(ctx context.Context, q dbtx, b sq.SelectBuilder) (int, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
