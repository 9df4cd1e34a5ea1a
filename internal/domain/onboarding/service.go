package onboarding

import (
	"context"
	"time"
)

type OnboardingService interface {
	GetWizard(ctx context.Context, studentID string) (*WizardState, error)
	PickSlot(ctx context.Context, studentID string, req PickSlotRequest) (*WizardState, error)
	FirstClassDateOptions(ctx context.Context, studentID string) ([]DateOption, error)
	SetFirstClassDate(ctx context.Context, studentID string, req SetFirstClassDateRequest) (*FirstClassResult, error)

	// RemoveWeeklySchedule deletes a pattern with its upcoming booked sessions
	// and sends the enrollment back through the wizard. Returns how many
	// bookings were removed.
	RemoveWeeklySchedule(ctx context.Context, id string) (int, error)

	// ExpandBookings materializes the enrollment's weekly patterns over
	// [from, from + ExpansionWeeks] and returns how many bookings were created.
	ExpandBookings(ctx context.Context, enrollmentID string, from time.Time) (int, error)
	// RefreshHorizon re-expands every active enrollment from today.
	RefreshHorizon(ctx context.Context, today time.Time) (int, error)
}
