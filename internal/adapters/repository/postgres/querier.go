package postgres

import (
	"context"
	"database/sql"
)

// SQLQuerier is the subset of *sql.DB and *sql.Tx the repositories run on, so
// the same repository works inside and outside a transaction.
type SQLQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
