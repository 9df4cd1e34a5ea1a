package enrollment

import "github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/validator"

type UpdateClassEnrollmentRequest struct {
	ID                string  `json:"-"`
	SessionsRemaining *int    `json:"sessions_remaining"`
	Status            *string `json:"status"`
}

func (r *UpdateClassEnrollmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.SessionsRemaining == nil && r.Status == nil {
		errs.Add("request", "sessions_remaining or status is required")
	}
	if r.SessionsRemaining != nil && *r.SessionsRemaining < 0 {
		errs.Add("sessions_remaining", "sessions_remaining must not be negative")
	}
	if r.Status != nil && !ClassStatus(*r.Status).Valid() {
		errs.Add("status", "status must be one of: active, completed")
	}

	return errs.Err()
}

type UpdateEnrollmentStatusRequest struct {
	ID     string `json:"-"`
	Status string `json:"status" validate:"required,oneof=pending_schedule pending_first_class active completed"`
}

func (r *UpdateEnrollmentStatusRequest) Validate() error {
	return validator.Struct(r).Err()
}
