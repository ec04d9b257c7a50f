package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"finbook/internal/port"
)

type txCtxKey struct{}

type txRunner struct {
	db *sqlx.DB
}

// NewTxRunner creates a TxRunner over the given connection pool.
func NewTxRunner(db *sqlx.DB) port.TxRunner {
	return &txRunner{db: db}
}

// RunInTx begins a transaction, binds it to the context passed to fn, and
// commits if fn returns nil. Any error (or panic) rolls everything back,
// including counter increments made through repositories inside fn.
func (r *txRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txCtxKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// queryer returns the transaction bound to ctx if RunInTx is active,
// otherwise the shared pool. All repositories resolve their executor
// through this so they transparently join an ambient transaction.
func queryer(ctx context.Context, db *sqlx.DB) sqlx.ExtContext {
	if tx, ok := ctx.Value(txCtxKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return db
}
