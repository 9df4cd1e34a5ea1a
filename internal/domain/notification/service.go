package notification

import (
	"context"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/booking"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/reschedule"
)

// RunResult summarizes one scheduled notification run.
type RunResult struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

type NotificationService interface {
	SendStudentRemindersH1(ctx context.Context, now time.Time) (RunResult, error)
	SendStudentRemindersToday(ctx context.Context, now time.Time) (RunResult, error)
	SendTeacherRemindersH1(ctx context.Context, now time.Time) (RunResult, error)
	SendTeacherWeeklySummaries(ctx context.Context, now time.Time) (RunResult, error)
	SendSessionRecaps(ctx context.Context, now time.Time) (RunResult, error)

	// NotifyStudentIzin and NotifyScheduleChange never fail the caller;
	// delivery problems are logged.
	NotifyStudentIzin(ctx context.Context, b booking.Booking)
	NotifyScheduleChange(ctx context.Context, req reschedule.Request, newBooking booking.Booking)
}
