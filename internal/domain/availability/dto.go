package availability

import (
	"fmt"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/validator"
)

type SetSkillsRequest struct {
	TeacherID      string   `json:"-"`
	MasterClassIDs []string `json:"master_class_ids"`
}

func (r *SetSkillsRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.TeacherID) {
		errs.Add("teacher_id", "teacher_id is required")
	}
	seen := make(map[string]bool, len(r.MasterClassIDs))
	for i, id := range r.MasterClassIDs {
		if validator.IsEmpty(id) {
			errs.Add(fmt.Sprintf("master_class_ids[%d]", i), "must not be empty")
		}
		if seen[id] {
			errs.Add(fmt.Sprintf("master_class_ids[%d]", i), "duplicate master class")
		}
		seen[id] = true
	}

	return errs.Err()
}

type AvailabilityInput struct {
	MasterClassID string `json:"master_class_id" validate:"required"`
	DayOfWeek     int    `json:"day_of_week" validate:"gte=0,lte=6"`
	TimeSlotID    string `json:"timeslot_id" validate:"required"`
}

type SetAvailabilityRequest struct {
	TeacherID string              `json:"-"`
	Entries   []AvailabilityInput `json:"entries" validate:"dive"`
}

func (r *SetAvailabilityRequest) Validate() error {
	errs := validator.Struct(r)

	if validator.IsEmpty(r.TeacherID) {
		errs.Add("teacher_id", "teacher_id is required")
	}
	seen := make(map[AvailabilityInput]bool, len(r.Entries))
	for i, e := range r.Entries {
		if seen[e] {
			errs.Add(fmt.Sprintf("entries[%d]", i), "duplicate entry")
		}
		seen[e] = true
	}

	return errs.Err()
}

type TeacherAvailabilityResponse struct {
	TeacherID string          `json:"teacher_id"`
	Skills    []SkillResponse `json:"skills"`
	Entries   []Availability  `json:"entries"`
}

type SkillResponse struct {
	MasterClassID string `json:"master_class_id"`
	Name          string `json:"name"`
}
