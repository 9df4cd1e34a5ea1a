package catalog

import (
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/validator"
)

type CreateTimeSlotRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	IsOnline  bool   `json:"is_online"`
}

func (r *CreateTimeSlotRequest) Validate() error {
	errs := validator.Struct(r)

	if r.StartTime != "" && !validator.IsValidClock(r.StartTime) {
		errs.Add("start_time", "start_time must use HH:MM format")
	}
	if r.EndTime != "" && !validator.IsValidClock(r.EndTime) {
		errs.Add("end_time", "end_time must use HH:MM format")
	}
	if validator.IsValidClock(r.StartTime) && validator.IsValidClock(r.EndTime) && r.EndTime <= r.StartTime {
		errs.Add("end_time", "end_time must be after start_time")
	}

	return errs.Err()
}

type CreateMasterClassRequest struct {
	Name           string `json:"name" validate:"required,max=255"`
	Description    string `json:"description"`
	DefaultMaxIzin int    `json:"default_max_izin" validate:"gte=0"`
}

func (r *CreateMasterClassRequest) Validate() error {
	return validator.Struct(r).Err()
}

type CreateProgramRequest struct {
	Name         string `json:"name" validate:"required,max=255"`
	Description  string `json:"description"`
	IsBatchBased bool   `json:"is_batch_based"`
}

func (r *CreateProgramRequest) Validate() error {
	return validator.Struct(r).Err()
}

type AddProgramClassRequest struct {
	ProgramID       string  `json:"-"`
	MasterClassID   string  `json:"master_class_id" validate:"required"`
	Name            *string `json:"name"`
	TotalSessions   int     `json:"total_sessions" validate:"gte=1"`
	SessionsPerWeek int     `json:"sessions_per_week" validate:"gte=1,lte=7"`
	IsBatch         bool    `json:"is_batch"`
	// MaxIzin falls back to the master class default when nil.
	MaxIzin *int `json:"max_izin"`
}

func (r *AddProgramClassRequest) Validate() error {
	errs := validator.Struct(r)

	if validator.IsEmpty(r.ProgramID) {
		errs.Add("program_id", "program_id is required")
	}
	if r.MaxIzin != nil && *r.MaxIzin < 0 {
		errs.Add("max_izin", "max_izin must not be negative")
	}
	if r.MaxIzin != nil && *r.MaxIzin > r.TotalSessions {
		errs.Add("max_izin", "max_izin must not exceed total_sessions")
	}

	return errs.Err()
}

type CreateSyllabusRequest struct {
	ProgramClassID string `json:"-"`
	Topic          string `json:"topic" validate:"required,max=255"`
	Description    string `json:"description"`
	Sessions       int    `json:"sessions" validate:"gte=1"`
}

func (r *CreateSyllabusRequest) Validate() error {
	errs := validator.Struct(r)
	if validator.IsEmpty(r.ProgramClassID) {
		errs.Add("program_class_id", "program_class_id is required")
	}
	return errs.Err()
}

type UpdateSyllabusRequest struct {
	ID          string `json:"-"`
	Topic       string `json:"topic" validate:"required,max=255"`
	Description string `json:"description"`
	Sessions    int    `json:"sessions" validate:"gte=1"`
}

func (r *UpdateSyllabusRequest) Validate() error {
	errs := validator.Struct(r)
	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	return errs.Err()
}

type CreateTeacherRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Password    string `json:"password" validate:"required,min=8,max=255"`
}

func (r *CreateTeacherRequest) Validate() error {
	errs := validator.Struct(r)
	if r.PhoneNumber != "" {
		if _, ok := validator.NormalizePhoneNumber(r.PhoneNumber); !ok {
			errs.Add("phone_number", "phone_number must be a valid Indonesian number")
		}
	}
	return errs.Err()
}

type TeacherResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

type SyllabusResponse struct {
	ProgramClassID    string         `json:"program_class_id"`
	ClassName         string         `json:"class_name"`
	TotalSessions     int            `json:"total_sessions"`
	SyllabusSessions  int            `json:"syllabus_sessions"`
	RemainingSessions int            `json:"remaining_sessions"`
	Items             []SyllabusItem `json:"items"`
}
