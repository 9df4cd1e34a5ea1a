package postgresql

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestRetryRerunsSerializationFailures(t *testing.T) {
	calls := 0
	err := retry(context.Background(), 3, 0, func() error {
		calls++
		if calls < 3 {
			return fmt.Errorf("commit transaction: %w", &pgconn.PgError{Code: "40001"})
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryGivesUp(t *testing.T) {
	calls := 0
	deadlock := &pgconn.PgError{Code: "40P01"}
	err := retry(context.Background(), 3, 0, func() error {
		calls++
		return deadlock
	})
	assert.ErrorIs(t, err, deadlock)
	assert.Equal(t, 3, calls)

	calls = 0
	duplicate := &pgconn.PgError{Code: "23505"}
	err = retry(context.Background(), 3, 0, func() error {
		calls++
		return duplicate
	})
	assert.ErrorIs(t, err, duplicate)
	assert.Equal(t, 1, calls, "constraint violations are final")

	calls = 0
	plain := errors.New("booking not found")
	assert.ErrorIs(t, retry(context.Background(), 3, 0, func() error { calls++; return plain }), plain)
	assert.Equal(t, 1, calls)
}

func TestRetryStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := retry(ctx, 3, time.Hour, func() error {
		calls++
		return &pgconn.PgError{Code: "40001"}
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
