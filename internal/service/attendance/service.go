package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/booking"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/override"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/utils"
)

const (
	SourceDirect = "direct"
	SourceLate   = "late_request"
)

type AttendanceServiceImpl struct {
	tx database.Transactor
	booking.BookingRepository
	booking.AttendanceRepository
	booking.AttendanceRequestRepository
	enrollment.EnrollmentRepository
	enrollment.ClassEnrollmentRepository
	override.OverrideRepository
	catalog.TimeSlotRepository
	user.UserRepository
	notifier notification.NotificationService
	now      func() time.Time
	loc      *time.Location
}

func NewAttendanceService(
	tx database.Transactor,
	bookingRepo booking.BookingRepository,
	attendanceRepo booking.AttendanceRepository,
	requestRepo booking.AttendanceRequestRepository,
	enrollmentRepo enrollment.EnrollmentRepository,
	classRepo enrollment.ClassEnrollmentRepository,
	overrideRepo override.OverrideRepository,
	slotRepo catalog.TimeSlotRepository,
	userRepo user.UserRepository,
	notifier notification.NotificationService,
	now func() time.Time,
	loc *time.Location,
) booking.AttendanceService {
	return &AttendanceServiceImpl{
		tx:                          tx,
		BookingRepository:           bookingRepo,
		AttendanceRepository:        attendanceRepo,
		AttendanceRequestRepository: requestRepo,
		EnrollmentRepository:        enrollmentRepo,
		ClassEnrollmentRepository:   classRepo,
		OverrideRepository:          overrideRepo,
		TimeSlotRepository:          slotRepo,
		UserRepository:              userRepo,
		notifier:                    notifier,
		now:                         now,
		loc:                         loc,
	}
}

// skipError aborts one item's transaction and carries the reason it was skipped.
type skipError struct{ reason string }

func (e skipError) Error() string { return e.reason }

func skip(reason string) error { return skipError{reason: reason} }

// sessionBounds returns the start and end instants of a slot on date.
func (a *AttendanceServiceImpl) sessionBounds(date time.Time, startClock, endClock string) (time.Time, time.Time, error) {
	start, err := utils.At(date, startClock, a.loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := utils.At(date, endClock, a.loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func (a *AttendanceServiceImpl) effectiveTeacher(ctx context.Context, b *booking.Booking) (string, error) {
	teacherID, err := override.EffectiveTeacher(ctx, a.OverrideRepository, b.TeacherID, b.Date, b.TimeSlotID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve session teacher: %w", err)
	}
	return teacherID, nil
}

func (a *AttendanceServiceImpl) hasAttendance(ctx context.Context, bookingID string) (bool, error) {
	_, err := a.AttendanceRepository.GetByBooking(ctx, bookingID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, booking.ErrAttendanceNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check attendance: %w", err)
}

// record writes the attendance of a booked booking together with its counter
// effects. Hadir consumes a session and may complete the class and then the
// enrollment. Izin consumes izin quota. Alpha only closes the booking.
// Callers run it inside a transaction.
func (a *AttendanceServiceImpl) record(ctx context.Context, b *booking.Booking, teacherID string, status booking.AttendanceStatus, notes string) (*booking.Attendance, error) {
	if err := a.BookingRepository.Transition(ctx, b.ID, booking.StatusCompleted, nil); err != nil {
		return nil, err
	}

	att := &booking.Attendance{
		BookingID: b.ID,
		TeacherID: teacherID,
		Date:      b.Date,
		Status:    status,
		Notes:     strings.TrimSpace(notes),
	}
	if err := a.AttendanceRepository.Create(ctx, att); err != nil {
		return nil, err
	}

	switch status {
	case booking.AttendanceHadir:
		class, err := a.ClassEnrollmentRepository.ConsumeSession(ctx, b.ClassEnrollmentID)
		if err != nil {
			return nil, err
		}
		if class.Status == enrollment.ClassStatusCompleted {
			completed, err := a.EnrollmentRepository.CompleteIfFinished(ctx, b.EnrollmentID)
			if err != nil {
				return nil, fmt.Errorf("failed to complete enrollment: %w", err)
			}
			slog.Info("Class enrollment completed", "class_enrollment_id", class.ID, "enrollment_completed", completed)
		}
	case booking.AttendanceIzin:
		if _, err := a.ClassEnrollmentRepository.ConsumeIzin(ctx, b.ClassEnrollmentID); err != nil {
			return nil, err
		}
	}
	return att, nil
}

// SubmitAttendance implements booking.AttendanceService.
func (a *AttendanceServiceImpl) SubmitAttendance(ctx context.Context, teacherID string, req booking.SubmitAttendanceRequest) (*booking.SubmitResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	slot, err := a.TimeSlotRepository.GetByID(ctx, req.TimeSlotID)
	if err != nil {
		return nil, err
	}
	start, end, err := a.sessionBounds(date, slot.StartTime, slot.EndTime)
	if err != nil {
		return nil, fmt.Errorf("invalid time slot clock: %w", err)
	}
	if err := booking.CheckWindow(a.now(), start, end); err != nil {
		return nil, err
	}

	result := &booking.SubmitResult{SkippedItems: []booking.SkippedItem{}}
	for _, item := range req.Items {
		status := booking.ParseAttendanceStatus(item.Status)
		err := a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
			return a.submitItem(txCtx, teacherID, date, req.TimeSlotID, item, status)
		})

		var skipped skipError
		switch {
		case err == nil:
			result.Processed++
			metrics.AttendanceRecorded.WithLabelValues(string(status), SourceDirect).Inc()
		case errors.As(err, &skipped):
			result.Skip(item.BookingID, skipped.reason)
		default:
			return nil, fmt.Errorf("failed to record attendance for booking %s: %w", item.BookingID, err)
		}
	}

	slog.Info("Attendance submitted", "teacher_id", teacherID, "date", req.Date, "timeslot_id", req.TimeSlotID,
		"processed", result.Processed, "skipped", result.Skipped)
	return result, nil
}

func (a *AttendanceServiceImpl) submitItem(ctx context.Context, teacherID string, date time.Time, slotID string, item booking.AttendanceItem, status booking.AttendanceStatus) error {
	b, err := a.BookingRepository.LockByID(ctx, item.BookingID)
	if err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			return skip(booking.SkipBookingNotFound)
		}
		return err
	}
	if !utils.DateOf(b.Date).Equal(date) || b.TimeSlotID != slotID {
		return skip(booking.SkipSessionMismatch)
	}

	effective, err := a.effectiveTeacher(ctx, b)
	if err != nil {
		return err
	}
	if effective != teacherID {
		return skip(booking.SkipNotSessionTeacher)
	}
	if b.Status != booking.StatusBooked {
		return skip(booking.SkipNotBooked)
	}

	attended, err := a.hasAttendance(ctx, b.ID)
	if err != nil {
		return err
	}
	if attended {
		return skip(booking.SkipAlreadyAttended)
	}

	_, err = a.record(ctx, b, teacherID, status, item.Notes)
	switch {
	case errors.Is(err, enrollment.ErrIzinQuotaExhausted):
		return skip(booking.SkipIzinQuota)
	case errors.Is(err, enrollment.ErrNoSessionsRemaining):
		return skip(booking.SkipNoSessions)
	case errors.Is(err, booking.ErrBookingAlreadyAttended):
		return skip(booking.SkipAlreadyAttended)
	case errors.Is(err, booking.ErrBookingNotBooked):
		return skip(booking.SkipNotBooked)
	}
	return err
}

// RequestIzin implements booking.AttendanceService.
func (a *AttendanceServiceImpl) RequestIzin(ctx context.Context, studentID string, req booking.RequestIzinRequest) (*booking.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var reason *string
	if trimmed := strings.TrimSpace(req.Reason); trimmed != "" {
		reason = &trimmed
	}

	err := a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		b, err := a.BookingRepository.LockByID(txCtx, req.BookingID)
		if err != nil {
			return err
		}
		if b.StudentID != studentID {
			return booking.ErrBookingNotOwned
		}
		if b.Status != booking.StatusBooked {
			return booking.ErrBookingNotBooked
		}

		start, err := utils.At(b.Date, b.SlotStart, a.loc)
		if err != nil {
			return fmt.Errorf("invalid time slot clock: %w", err)
		}
		if err := booking.CheckIzinNotice(a.now(), start); err != nil {
			return err
		}

		class, err := a.ClassEnrollmentRepository.GetByID(txCtx, b.ClassEnrollmentID)
		if err != nil {
			return err
		}
		if class.MaxIzin == 0 {
			return booking.ErrIzinNotAllowed
		}
		if _, err := a.ClassEnrollmentRepository.ConsumeIzin(txCtx, class.ID); err != nil {
			return err
		}
		return a.BookingRepository.Transition(txCtx, b.ID, booking.StatusIzin, reason)
	})
	if err != nil {
		return nil, err
	}

	b, err := a.BookingRepository.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	slog.Info("Izin requested", "booking_id", b.ID, "student_id", studentID, "date", b.Date.Format(utils.DateLayout))

	a.notifier.NotifyStudentIzin(ctx, *b)
	return b, nil
}

// RequestLateAttendance implements booking.AttendanceService.
func (a *AttendanceServiceImpl) RequestLateAttendance(ctx context.Context, teacherID string, req booking.LateAttendanceRequest) (*booking.AttendanceRequest, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r := &booking.AttendanceRequest{
		BookingID:      req.BookingID,
		TeacherID:      teacherID,
		Status:         booking.ParseAttendanceStatus(req.Status),
		Notes:          strings.TrimSpace(req.Notes),
		Reason:         strings.TrimSpace(req.Reason),
		ApprovalStatus: booking.ApprovalPending,
	}
	err := a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		b, err := a.BookingRepository.LockByID(txCtx, req.BookingID)
		if err != nil {
			return err
		}

		now := a.now()
		_, end, err := a.sessionBounds(b.Date, b.SlotStart, b.SlotEnd)
		if err != nil {
			return fmt.Errorf("invalid time slot clock: %w", err)
		}
		if err := booking.CheckLateRequest(now, end, b.Date, utils.Today(now, a.loc)); err != nil {
			return err
		}

		if b.Status != booking.StatusBooked {
			return booking.ErrBookingNotBooked
		}
		attended, err := a.hasAttendance(txCtx, b.ID)
		if err != nil {
			return err
		}
		if attended {
			return booking.ErrBookingAlreadyAttended
		}

		effective, err := a.effectiveTeacher(txCtx, b)
		if err != nil {
			return err
		}
		if effective != teacherID {
			return booking.ErrNotSessionTeacher
		}

		pending, err := a.AttendanceRequestRepository.HasPending(txCtx, b.ID)
		if err != nil {
			return fmt.Errorf("failed to check pending requests: %w", err)
		}
		if pending {
			return booking.ErrLateRequestPending
		}
		return a.AttendanceRequestRepository.Create(txCtx, r)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Late attendance requested", "request_id", r.ID, "booking_id", r.BookingID, "teacher_id", teacherID)
	return a.AttendanceRequestRepository.GetByID(ctx, r.ID)
}

// ApproveLateAttendance implements booking.AttendanceService. The attendance
// is materialized with the same effects as a direct submission.
func (a *AttendanceServiceImpl) ApproveLateAttendance(ctx context.Context, adminID, requestID string) (*booking.AttendanceRequest, error) {
	var status booking.AttendanceStatus
	err := a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		r, err := a.AttendanceRequestRepository.GetByID(txCtx, requestID)
		if err != nil {
			return err
		}
		if r.ApprovalStatus != booking.ApprovalPending {
			return booking.ErrRequestAlreadyProcessed
		}

		b, err := a.BookingRepository.LockByID(txCtx, r.BookingID)
		if err != nil {
			return err
		}
		attended, err := a.hasAttendance(txCtx, b.ID)
		if err != nil {
			return err
		}
		if attended {
			return booking.ErrBookingAlreadyAttended
		}
		if b.Status != booking.StatusBooked {
			return booking.ErrBookingNotBooked
		}

		att, err := a.record(txCtx, b, r.TeacherID, r.Status, r.Notes)
		if err != nil {
			return err
		}

		now := a.now()
		r.ApprovalStatus = booking.ApprovalApproved
		r.ApprovedBy = &adminID
		r.ApprovedAt = &now
		r.AttendanceID = &att.ID
		status = r.Status
		return a.AttendanceRequestRepository.Resolve(txCtx, r)
	})
	if err != nil {
		return nil, err
	}

	metrics.AttendanceRecorded.WithLabelValues(string(status), SourceLate).Inc()
	slog.Info("Late attendance approved", "request_id", requestID, "admin_id", adminID)
	return a.AttendanceRequestRepository.GetByID(ctx, requestID)
}

// RejectLateAttendance implements booking.AttendanceService. The booking is
// left untouched so the teacher may request again.
func (a *AttendanceServiceImpl) RejectLateAttendance(ctx context.Context, adminID, requestID, reason string) (*booking.AttendanceRequest, error) {
	req := booking.RejectRequest{Reason: strings.TrimSpace(reason)}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	err := a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		r, err := a.AttendanceRequestRepository.GetByID(txCtx, requestID)
		if err != nil {
			return err
		}
		if r.ApprovalStatus != booking.ApprovalPending {
			return booking.ErrRequestAlreadyProcessed
		}

		now := a.now()
		r.ApprovalStatus = booking.ApprovalRejected
		r.ApprovedBy = &adminID
		r.ApprovedAt = &now
		r.RejectionReason = &req.Reason
		return a.AttendanceRequestRepository.Resolve(txCtx, r)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Late attendance rejected", "request_id", requestID, "admin_id", adminID)
	return a.AttendanceRequestRepository.GetByID(ctx, requestID)
}

// ListAttendanceRequests implements booking.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendanceRequests(ctx context.Context, filter booking.AttendanceRequestFilter) ([]booking.AttendanceRequest, error) {
	requests, err := a.AttendanceRequestRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance requests: %w", err)
	}
	if requests == nil {
		requests = []booking.AttendanceRequest{}
	}
	return requests, nil
}

// ListBookings implements booking.AttendanceService.
func (a *AttendanceServiceImpl) ListBookings(ctx context.Context, filter booking.BookingFilter) ([]booking.Booking, error) {
	bookings, err := a.BookingRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	if bookings == nil {
		bookings = []booking.Booking{}
	}
	return bookings, nil
}

// CreateManualBooking implements booking.AttendanceService.
func (a *AttendanceServiceImpl) CreateManualBooking(ctx context.Context, req booking.CreateManualBookingRequest) (*booking.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	class, err := a.ClassEnrollmentRepository.GetByID(ctx, req.ClassEnrollmentID)
	if err != nil {
		return nil, err
	}
	teacher, err := a.UserRepository.GetByID(ctx, req.TeacherID)
	if err != nil {
		return nil, err
	}
	if !teacher.IsTeacher() {
		return nil, user.ErrNotATeacher
	}
	if _, err := a.TimeSlotRepository.GetByID(ctx, req.TimeSlotID); err != nil {
		return nil, err
	}

	b := &booking.Booking{
		EnrollmentID:      class.EnrollmentID,
		ClassEnrollmentID: class.ID,
		Date:              date,
		TimeSlotID:        req.TimeSlotID,
		TeacherID:         teacher.ID,
		Status:            booking.StatusBooked,
	}
	if err := a.BookingRepository.Create(ctx, b); err != nil {
		return nil, err
	}

	slog.Info("Manual booking created", "booking_id", b.ID, "class_enrollment_id", class.ID, "date", req.Date)
	return a.BookingRepository.GetByID(ctx, b.ID)
}

// CancelBooking implements booking.AttendanceService.
func (a *AttendanceServiceImpl) CancelBooking(ctx context.Context, bookingID string) (*booking.Booking, error) {
	if err := a.BookingRepository.Transition(ctx, bookingID, booking.StatusCancelled, nil); err != nil {
		return nil, err
	}
	slog.Info("Booking cancelled", "booking_id", bookingID)
	return a.BookingRepository.GetByID(ctx, bookingID)
}

// DeleteBooking implements booking.AttendanceService. Sessions that were
// attended or excused carry quota and tally history and cannot be deleted.
func (a *AttendanceServiceImpl) DeleteBooking(ctx context.Context, bookingID string) error {
	err := a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		b, err := a.BookingRepository.LockByID(txCtx, bookingID)
		if err != nil {
			return err
		}
		if b.Status != booking.StatusBooked && b.Status != booking.StatusCancelled {
			return booking.ErrBookingNotDeletable
		}
		attended, err := a.hasAttendance(txCtx, b.ID)
		if err != nil {
			return err
		}
		if attended {
			return booking.ErrBookingNotDeletable
		}
		return a.BookingRepository.Delete(txCtx, b.ID)
	})
	if err != nil {
		return err
	}
	slog.Info("Booking deleted", "booking_id", bookingID)
	return nil
}
