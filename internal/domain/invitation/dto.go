package invitation

import (
	"strings"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/validator"
)

type InviteStudentRequest struct {
	Name        string `json:"name" validate:"max=255"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	ProgramID   string `json:"program_id" validate:"required"`
}

func (r *InviteStudentRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Name = strings.TrimSpace(r.Name)

	errs := validator.Struct(r)
	if r.PhoneNumber != "" {
		if phone, ok := validator.NormalizePhoneNumber(r.PhoneNumber); ok {
			r.PhoneNumber = phone
		} else {
			errs.Add("phone_number", ErrInvalidPhoneNumber.Error())
		}
	}

	return errs.Err()
}

type InviteResponse struct {
	UserID         string `json:"user_id"`
	EnrollmentID   string `json:"enrollment_id"`
	ActivationLink string `json:"activation_link"`
}

type InvitationDetailResponse struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	ProgramName string `json:"program_name"`
}

// ActivationLink builds the frontend URL a student opens to activate.
func ActivationLink(frontendURL, token string) string {
	return strings.TrimRight(frontendURL, "/") + "/activate/" + token
}
