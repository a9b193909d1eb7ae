package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-flashcards/internal/platform/logger"
)

// TxFn is the unit of work run by RunInTransaction. Returning nil commits.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction runs fn in a new transaction on db.
//
// The transaction commits when fn returns nil and rolls back otherwise. A
// panic inside fn rolls back and is re-raised. When the rollback itself fails
// the returned error wraps fn's error and reports the rollback failure.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("transaction begin failed", slog.String("error", err.Error()))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("rollback after panic failed",
				slog.String("error", rbErr.Error()),
				slog.Any("panic", p))
		} else {
			log.Error("rolled back after panic", slog.Any("panic", p))
		}
		// ALLOW-PANIC: re-raise after rollback
		panic(p)
	}()

	if fnErr := fn(ctx, tx); fnErr != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("rollback failed",
				slog.String("rollback_error", rbErr.Error()),
				slog.String("original_error", fnErr.Error()))
			return fmt.Errorf("error rolling back transaction: %v (original error: %w)", rbErr, fnErr)
		}
		log.Debug("transaction rolled back", slog.String("error", fnErr.Error()))
		return fnErr
	}

	if err := tx.Commit(); err != nil {
		log.Error("transaction commit failed", slog.String("error", err.Error()))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	log.Debug("transaction committed")
	return nil
}

// TxRunner runs a function inside a transaction. Services take a TxRunner
// rather than *sql.DB so tests can substitute a fake.
type TxRunner interface {
	RunInTx(ctx context.Context, fn TxFn) error
}

// DBTxRunner is a TxRunner over a database handle.
type DBTxRunner struct {
	db *sql.DB
}

// NewTxRunner returns a TxRunner that opens transactions on db.
func NewTxRunner(db *sql.DB) *DBTxRunner {
	return &DBTxRunner{db: db}
}

// RunInTx implements TxRunner.
func (r *DBTxRunner) RunInTx(ctx context.Context, fn TxFn) error {
	return RunInTransaction(ctx, r.db, fn)
}
