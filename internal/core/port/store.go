package port

import (
	"context"
	"database/sql"
)

// Store is the caller owned handle statements run against. *sql.DB, *sql.Tx
// and *sql.Conn all satisfy it.
type Store interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
