package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddJobRejectsBadSpec(t *testing.T) {
	s := NewScheduler(time.UTC)
	err := s.AddJob("broken", "every day", func(ctx context.Context) error { return nil })
	assert.Error(t, err)
	assert.Empty(t, s.Jobs())
}

func TestRunOnce(t *testing.T) {
	s := NewScheduler(time.UTC)
	calls := 0
	require.NoError(t, s.AddJob("counter", "0 7 * * 0", func(ctx context.Context) error {
		calls++
		return nil
	}))
	require.NoError(t, s.AddJob("failing", "*/5 * * * *", func(ctx context.Context) error {
		return errors.New("boom")
	}))

	require.NoError(t, s.RunOnce(context.Background(), "counter"))
	assert.Equal(t, 1, calls)
	assert.EqualError(t, s.RunOnce(context.Background(), "failing"), "boom")
	assert.Error(t, s.RunOnce(context.Background(), "missing"))

	jobs := s.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, "0 7 * * 0", jobs[0].Spec)
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(time.UTC)
	require.NoError(t, s.AddJob("noop", "0 0 1 1 *", func(ctx context.Context) error { return nil }))
	s.Start()
	s.Stop()
}
