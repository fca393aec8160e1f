// Package dbx holds the database primitives shared by the repositories:
// the DBTX handle they are constructed over, and WithTx for running
// multi-step writes atomically.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the execution handle the repositories depend on. Both *sql.DB
// and *sql.Tx satisfy it, so the same repository code serves plain reads
// and the transactional load-check-write paths in the task service.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction: commit when fn returns nil, roll
// back on error, roll back and rethrow on panic.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    repo := m.Tasks(tx)
//	    ...
//	    return repo.Update(ctx, task)
//	})
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

	err = fn(ctx, tx)
	return err
}
