package booking

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/validator"
)

type AttendanceItem struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
	Notes     string `json:"notes"`
}

type SubmitAttendanceRequest struct {
	Date       string           `json:"date"`
	TimeSlotID string           `json:"timeslot_id"`
	Items      []AttendanceItem `json:"items"`
}

func (r *SubmitAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must use YYYY-MM-DD format")
	}
	if validator.IsEmpty(r.TimeSlotID) {
		errs.Add("timeslot_id", "timeslot_id is required")
	}
	if len(r.Items) == 0 {
		errs.Add("items", "at least one attendance item is required")
	}
	for i, item := range r.Items {
		if validator.IsEmpty(item.BookingID) {
			errs.Add(fmt.Sprintf("items[%d].booking_id", i), "booking_id is required")
		}
	}

	return errs.Err()
}

const (
	SkipBookingNotFound   = "booking not found"
	SkipSessionMismatch   = "booking does not belong to this date and slot"
	SkipNotSessionTeacher = "not the teacher of this session"
	SkipNotBooked         = "booking is no longer booked"
	SkipAlreadyAttended   = "attendance already recorded"
	SkipIzinQuota         = "izin quota exhausted"
	SkipNoSessions        = "no sessions remaining"
)

type SkippedItem struct {
	BookingID string `json:"booking_id"`
	Reason    string `json:"reason"`
}

type SubmitResult struct {
	Processed    int           `json:"processed"`
	Skipped      int           `json:"skipped"`
	SkippedItems []SkippedItem `json:"skipped_items"`
}

func (r *SubmitResult) Skip(bookingID, reason string) {
	r.Skipped++
	r.SkippedItems = append(r.SkippedItems, SkippedItem{BookingID: bookingID, Reason: reason})
}

type RequestIzinRequest struct {
	BookingID string `json:"-"`
	Reason    string `json:"reason"`
}

func (r *RequestIzinRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.BookingID) {
		errs.Add("booking_id", "booking_id is required")
	}
	if len(r.Reason) > 500 {
		errs.Add("reason", "reason must not exceed 500 characters")
	}

	return errs.Err()
}

type LateAttendanceRequest struct {
	BookingID string `json:"booking_id" validate:"required"`
	Status    string `json:"status"`
	Notes     string `json:"notes" validate:"max=1000"`
	Reason    string `json:"reason" validate:"required,max=500"`
}

func (r *LateAttendanceRequest) Validate() error {
	return validator.Struct(r).Err()
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

func (r *RejectRequest) Validate() error {
	return validator.Struct(r).Err()
}

type CreateManualBookingRequest struct {
	ClassEnrollmentID string `json:"class_enrollment_id" validate:"required"`
	Date              string `json:"date" validate:"required"`
	TimeSlotID        string `json:"timeslot_id" validate:"required"`
	TeacherID         string `json:"teacher_id" validate:"required"`
}

func (r *CreateManualBookingRequest) Validate() error {
	errs := validator.Struct(r)
	if r.Date != "" {
		if _, ok := validator.IsValidDate(r.Date); !ok {
			errs.Add("date", "date must use YYYY-MM-DD format")
		}
	}
	return errs.Err()
}

// ListBookingsQuery is the HTTP form of BookingFilter.
type ListBookingsQuery struct {
	DateFrom string
	DateTo   string
	Status   string
}

func (q ListBookingsQuery) ToFilter() (BookingFilter, error) {
	var filter BookingFilter
	var errs validator.ValidationErrors

	parse := func(field, value string) *time.Time {
		if value == "" {
			return nil
		}
		t, ok := validator.IsValidDate(value)
		if !ok {
			errs.Add(field, field+" must use YYYY-MM-DD format")
			return nil
		}
		return &t
	}
	filter.DateFrom = parse("date_from", q.DateFrom)
	filter.DateTo = parse("date_to", q.DateTo)

	if q.Status != "" {
		switch s := Status(q.Status); s {
		case StatusBooked, StatusIzin, StatusCompleted, StatusCancelled:
			filter.Statuses = []Status{s}
		default:
			errs.Add("status", "status must be one of: booked, izin, completed, cancelled")
		}
	}

	return filter, errs.Err()
}
