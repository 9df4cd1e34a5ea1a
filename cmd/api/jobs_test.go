package main

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/onboarding"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/cron"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*60*60)

type recordingNotifier struct {
	notification.NotificationService
	calls []time.Time
}

func (n *recordingNotifier) record(_ context.Context, now time.Time) (notification.RunResult, error) {
	n.calls = append(n.calls, now)
	return notification.RunResult{}, nil
}

func (n *recordingNotifier) SendStudentRemindersH1(ctx context.Context, now time.Time) (notification.RunResult, error) {
	return n.record(ctx, now)
}

func (n *recordingNotifier) SendTeacherRemindersH1(ctx context.Context, now time.Time) (notification.RunResult, error) {
	return n.record(ctx, now)
}

func (n *recordingNotifier) SendStudentRemindersToday(ctx context.Context, now time.Time) (notification.RunResult, error) {
	return n.record(ctx, now)
}

func (n *recordingNotifier) SendTeacherWeeklySummaries(ctx context.Context, now time.Time) (notification.RunResult, error) {
	return n.record(ctx, now)
}

func (n *recordingNotifier) SendSessionRecaps(ctx context.Context, now time.Time) (notification.RunResult, error) {
	return n.record(ctx, now)
}

type horizonRecorder struct {
	onboarding.OnboardingService
	days []time.Time
}

func (h *horizonRecorder) RefreshHorizon(_ context.Context, today time.Time) (int, error) {
	h.days = append(h.days, today)
	return 0, nil
}

func TestRegisterJobs(t *testing.T) {
	now := time.Date(2026, 10, 19, 0, 30, 0, 0, wib)
	notifier := &recordingNotifier{}
	horizon := &horizonRecorder{}
	s := cron.NewScheduler(wib)

	require.NoError(t, registerJobs(s, notifier, horizon, func() time.Time { return now }, wib))

	names := make([]string, 0)
	for _, job := range s.Jobs() {
		names = append(names, job.Name)
	}
	assert.Equal(t, []string{
		"student-reminder-h1", "teacher-reminder-h1", "student-reminder-hday",
		"teacher-weekly-summary", "session-recap", "booking-horizon",
	}, names)

	require.NoError(t, s.RunOnce(context.Background(), "session-recap"))
	assert.Equal(t, []time.Time{now}, notifier.calls)

	// 00:30 WIB on the 19th is still the 18th in UTC.
	require.NoError(t, s.RunOnce(context.Background(), "booking-horizon"))
	require.Len(t, horizon.days, 1)
	assert.Equal(t, "2026-10-19", horizon.days[0].Format("2006-01-02"))
}
