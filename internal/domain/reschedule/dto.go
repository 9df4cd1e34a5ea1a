package reschedule

import (
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/validator"
)

// Actor is the authenticated user behind a request.
type Actor struct {
	ID   string
	Role user.Role
}

type CreateRescheduleRequest struct {
	BookingID     string `json:"booking_id" validate:"required"`
	NewDate       string `json:"new_date" validate:"required"`
	NewTimeSlotID string `json:"new_timeslot_id" validate:"required"`
	// NewTeacherID keeps the current teacher when empty.
	NewTeacherID string `json:"new_teacher_id"`
	Reason       string `json:"reason" validate:"max=500"`
}

func (r *CreateRescheduleRequest) Validate() error {
	errs := validator.Struct(r)
	if r.NewDate != "" {
		if _, ok := validator.IsValidDate(r.NewDate); !ok {
			errs.Add("new_date", "new_date must use YYYY-MM-DD format")
		}
	}
	return errs.Err()
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

func (r *RejectRequest) Validate() error {
	return validator.Struct(r).Err()
}
