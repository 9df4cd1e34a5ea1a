package booking

import (
	"context"
	"time"
)

type BookingFilter struct {
	EnrollmentID      string
	ClassEnrollmentID string
	StudentID         string
	TeacherIDs        []string
	DateFrom          *time.Time
	DateTo            *time.Time
	TimeSlotID        string
	Statuses          []Status
}

type BookingRepository interface {
	// Create fails with ErrDuplicateBooking on the (enrollment, date, slot) constraint.
	Create(ctx context.Context, b *Booking) error
	// CreateIfAbsent inserts b unless the (enrollment, date, slot) row exists
	// and reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, b *Booking) (bool, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	// LockByID loads the booking and holds a row lock until the transaction ends.
	LockByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]Booking, error)
	// Transition moves a booked booking to status. Fails with
	// ErrBookingNotBooked when the booking has already left booked.
	Transition(ctx context.Context, id string, status Status, izinReason *string) error
	// Reinstate returns a cancelled booking to booked under teacherID.
	// Fails with ErrBookingNotCancelled for any other status.
	Reinstate(ctx context.Context, id, teacherID string) error
	// Delete removes the booking together with its attendance, requests and
	// reschedules.
	Delete(ctx context.Context, id string) error
}

type AttendanceRepository interface {
	// Create fails with ErrBookingAlreadyAttended when the booking has one.
	Create(ctx context.Context, a *Attendance) error
	GetByBooking(ctx context.Context, bookingID string) (*Attendance, error)
	ListRecentByClassEnrollment(ctx context.Context, classEnrollmentID string, limit int) ([]Attendance, error)
	Tally(ctx context.Context, classEnrollmentID string) (Tally, error)
}

type AttendanceRequestFilter struct {
	ApprovalStatus *ApprovalStatus
	TeacherID      string
}

type AttendanceRequestRepository interface {
	// Create fails with ErrLateRequestPending when the booking has a pending request.
	Create(ctx context.Context, r *AttendanceRequest) error
	GetByID(ctx context.Context, id string) (*AttendanceRequest, error)
	HasPending(ctx context.Context, bookingID string) (bool, error)
	List(ctx context.Context, filter AttendanceRequestFilter) ([]AttendanceRequest, error)
	// Resolve persists the approval fields of a pending request. Fails with
	// ErrRequestAlreadyProcessed when the request is no longer pending.
	Resolve(ctx context.Context, r *AttendanceRequest) error
}
