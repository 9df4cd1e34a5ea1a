package onboarding

import (
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/availability"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/validator"
)

type WizardProgress struct {
	Scheduled int `json:"scheduled"`
	Required  int `json:"required"`
}

type WizardState struct {
	EnrollmentID      string                      `json:"enrollment_id"`
	ProgramName       string                      `json:"program_name"`
	Done              bool                        `json:"done"`
	Class             *enrollment.ClassEnrollment `json:"class,omitempty"`
	RemainingPatterns int                         `json:"remaining_patterns"`
	Options           []availability.SlotOption   `json:"options"`
	Schedules         []enrollment.WeeklySchedule `json:"schedules"`
	Progress          WizardProgress              `json:"progress"`
}

type PickSlotRequest struct {
	ClassEnrollmentID string `json:"class_enrollment_id" validate:"required"`
	TeacherID         string `json:"teacher_id" validate:"required"`
	DayOfWeek         int    `json:"day_of_week" validate:"gte=0,lte=6"`
	TimeSlotID        string `json:"timeslot_id" validate:"required"`
}

func (r *PickSlotRequest) Validate() error {
	return validator.Struct(r).Err()
}

type DateOption struct {
	Date    string `json:"date"`
	DayName string `json:"day_name"`
	Label   string `json:"label"`
}

type SetFirstClassDateRequest struct {
	Date string `json:"date"`
}

func (r *SetFirstClassDateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must use YYYY-MM-DD format")
	}

	return errs.Err()
}

type FirstClassResult struct {
	Enrollment      *enrollment.Enrollment `json:"enrollment"`
	BookingsCreated int                    `json:"bookings_created"`
}
