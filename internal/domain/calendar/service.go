package calendar

import (
	"context"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/override"
)

type CalendarService interface {
	TeacherCalendar(ctx context.Context, teacherID string, from, to time.Time) ([]Occurrence, error)
	StudentCalendar(ctx context.Context, studentID string, from, to time.Time) ([]Occurrence, error)
	// EffectiveTeacherFor returns the override-aware teacher of a booking.
	EffectiveTeacherFor(ctx context.Context, bookingID string) (string, error)
	AttendanceSheet(ctx context.Context, teacherID string, date time.Time, slotID string) (*AttendanceSheet, error)
	// MasterSchedule returns the recurring patterns of every active
	// enrollment on a weekday x slot grid.
	MasterSchedule(ctx context.Context) ([]MasterDay, error)

	CreateOverride(ctx context.Context, adminID string, req override.CreateOverrideRequest) (*override.Override, error)
	DeleteOverride(ctx context.Context, id string) error
	ListOverrides(ctx context.Context, from, to time.Time) ([]override.Override, error)
}
