package postgresql

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// txAttempts bounds how often a unit of work is rerun after a serialization
// failure or deadlock, e.g. two admins approving requests on the same booking.
const txAttempts = 3

type txKey struct{}

// GetQuerier returns the transaction carried by ctx, or the pool.
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return db.Pool
}

type transactor struct {
	db      *database.DB
	backoff time.Duration
}

func NewTransactor(db *database.DB) database.Transactor {
	return &transactor{db: db, backoff: 20 * time.Millisecond}
}

// WithinTransaction implements database.Transactor. A ctx that already
// carries a transaction is reused so nested calls share one commit. The
// outermost call reruns fn when Postgres aborts it as retryable.
func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}
	return retry(ctx, txAttempts, t.backoff, func() error {
		return t.run(ctx, fn)
	})
}

func (t *transactor) run(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := t.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				slog.Error("rollback error during panic recovery", "error", rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback error: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// retry calls attempt until it succeeds, fails with a non-retryable error or
// runs out of attempts. The wait grows linearly between attempts.
func retry(ctx context.Context, attempts int, backoff time.Duration, attempt func() error) error {
	var err error
	for i := 1; i <= attempts; i++ {
		if err = attempt(); err == nil || !database.IsRetryable(err) {
			return err
		}
		if i == attempts {
			break
		}
		slog.Warn("Retrying aborted transaction", "attempt", i, "error", err)
		select {
		case <-ctx.Done():
			return err
		case <-time.After(time.Duration(i) * backoff):
		}
	}
	return err
}
