package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/onboarding"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/utils"
)

type notificationRun func(ctx context.Context, now time.Time) (notification.RunResult, error)

// registerJobs binds the notification and horizon jobs to their schedules.
// Expressions are evaluated in the scheduler's location.
func registerJobs(s *cron.Scheduler, notifier notification.NotificationService, onboardingSvc onboarding.OnboardingService, now func() time.Time, loc *time.Location) error {
	runs := []struct {
		name string
		spec string
		run  notificationRun
	}{
		{"student-reminder-h1", "0 18 * * *", notifier.SendStudentRemindersH1},
		{"teacher-reminder-h1", "0 18 * * *", notifier.SendTeacherRemindersH1},
		{"student-reminder-hday", "0 7 * * *", notifier.SendStudentRemindersToday},
		{"teacher-weekly-summary", "0 7 * * 0", notifier.SendTeacherWeeklySummaries},
		{"session-recap", "*/5 * * * *", notifier.SendSessionRecaps},
	}
	for _, r := range runs {
		run := r.run
		if err := s.AddJob(r.name, r.spec, func(ctx context.Context) error {
			_, err := run(ctx, now())
			return err
		}); err != nil {
			return err
		}
	}

	return s.AddJob("booking-horizon", "0 1 * * *", func(ctx context.Context) error {
		created, err := onboardingSvc.RefreshHorizon(ctx, utils.Today(now(), loc))
		if err != nil {
			return err
		}
		slog.Info("Booking horizon refreshed", "bookings_created", created)
		return nil
	})
}
