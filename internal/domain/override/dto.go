package override

import "github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/validator"

type CreateOverrideRequest struct {
	Date                string `json:"date" validate:"required"`
	TimeSlotID          string `json:"timeslot_id" validate:"required"`
	OriginalTeacherID   string `json:"original_teacher_id" validate:"required"`
	SubstituteTeacherID string `json:"substitute_teacher_id" validate:"required"`
	Reason              string `json:"reason" validate:"max=500"`
}

func (r *CreateOverrideRequest) Validate() error {
	errs := validator.Struct(r)

	if r.Date != "" {
		if _, ok := validator.IsValidDate(r.Date); !ok {
			errs.Add("date", "date must use YYYY-MM-DD format")
		}
	}
	if r.OriginalTeacherID != "" && r.OriginalTeacherID == r.SubstituteTeacherID {
		errs.Add("substitute_teacher_id", ErrSameTeacher.Error())
	}

	return errs.Err()
}
