// Package dbx holds the small database plumbing shared by the stores:
// DBTX, a query interface satisfied by *sql.DB and *sql.Tx alike, and
// WithTx, which runs a function inside a transaction.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the query surface store methods are written against. Writing
// against it instead of *sql.DB lets the same code run directly on the
// pool or inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx begins a transaction on db and runs fn with the transactional
// handle. The transaction commits when fn returns nil and rolls back
// when it returns an error or panics; a panic is re-raised after the
// rollback.
//
// The reference mirror swaps rely on this: delete plus re-insert inside
// one transaction means a concurrent reader observes either the old
// snapshot or the new one, never a half-replaced table.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(ctx, tx)
}
