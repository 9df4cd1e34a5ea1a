package reschedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/booking"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/override"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/reschedule"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/utils"
)

type RescheduleServiceImpl struct {
	tx database.Transactor
	reschedule.RescheduleRepository
	booking.BookingRepository
	override.OverrideRepository
	catalog.TimeSlotRepository
	user.UserRepository
	notifier notification.NotificationService
	now      func() time.Time
	loc      *time.Location
}

func NewRescheduleService(
	tx database.Transactor,
	rescheduleRepo reschedule.RescheduleRepository,
	bookingRepo booking.BookingRepository,
	overrideRepo override.OverrideRepository,
	slotRepo catalog.TimeSlotRepository,
	userRepo user.UserRepository,
	notifier notification.NotificationService,
	now func() time.Time,
	loc *time.Location,
) reschedule.RescheduleService {
	return &RescheduleServiceImpl{
		tx:                   tx,
		RescheduleRepository: rescheduleRepo,
		BookingRepository:    bookingRepo,
		OverrideRepository:   overrideRepo,
		TimeSlotRepository:   slotRepo,
		UserRepository:       userRepo,
		notifier:             notifier,
		now:                  now,
		loc:                  loc,
	}
}

// authorize checks that actor may move b: students their own bookings,
// teachers the sessions they effectively teach, admins anything.
func (s *RescheduleServiceImpl) authorize(ctx context.Context, actor reschedule.Actor, b *booking.Booking) error {
	switch actor.Role {
	case user.RoleAdmin:
		return nil
	case user.RoleStudent:
		if b.StudentID == actor.ID {
			return nil
		}
	case user.RoleTeacher:
		effective, err := override.EffectiveTeacher(ctx, s.OverrideRepository, b.TeacherID, b.Date, b.TimeSlotID)
		if err != nil {
			return fmt.Errorf("failed to resolve session teacher: %w", err)
		}
		if effective == actor.ID {
			return nil
		}
	}
	return reschedule.ErrNotAllowed
}

// Create implements reschedule.RescheduleService.
func (s *RescheduleServiceImpl) Create(ctx context.Context, actor reschedule.Actor, req reschedule.CreateRescheduleRequest) (*reschedule.Request, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	newDate, err := utils.ParseDate(req.NewDate)
	if err != nil {
		return nil, err
	}
	if newDate.Before(utils.Today(s.now(), s.loc)) {
		return nil, reschedule.ErrNewDateInPast
	}

	b, err := s.BookingRepository.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, b); err != nil {
		return nil, err
	}
	if b.Status != booking.StatusBooked {
		return nil, reschedule.ErrBookingNotReschedulable
	}

	newTeacherID := req.NewTeacherID
	if newTeacherID == "" {
		newTeacherID = b.TeacherID
	}
	teacher, err := s.UserRepository.GetByID(ctx, newTeacherID)
	if err != nil {
		return nil, err
	}
	if !teacher.IsTeacher() {
		return nil, user.ErrNotATeacher
	}
	if _, err := s.TimeSlotRepository.GetByID(ctx, req.NewTimeSlotID); err != nil {
		return nil, err
	}
	// The booking keeps its (date, slot) key when cancelled, so a move must
	// change one of them. Same-session teacher swaps go through overrides.
	if utils.DateOf(b.Date).Equal(newDate) && b.TimeSlotID == req.NewTimeSlotID {
		if b.TeacherID == newTeacherID {
			return nil, reschedule.ErrSameSchedule
		}
		return nil, reschedule.ErrTeacherOnlyChange
	}

	r := &reschedule.Request{
		BookingID:          b.ID,
		RequestedBy:        actor.ID,
		OriginalDate:       utils.DateOf(b.Date),
		OriginalTimeSlotID: b.TimeSlotID,
		OriginalTeacherID:  b.TeacherID,
		NewDate:            newDate,
		NewTimeSlotID:      req.NewTimeSlotID,
		NewTeacherID:       newTeacherID,
		Reason:             strings.TrimSpace(req.Reason),
		Status:             reschedule.StatusPending,
	}
	if err := s.RescheduleRepository.Create(ctx, r); err != nil {
		return nil, err
	}

	slog.Info("Reschedule requested", "request_id", r.ID, "booking_id", b.ID, "requested_by", actor.ID, "new_date", req.NewDate)
	return s.RescheduleRepository.GetByID(ctx, r.ID)
}

// Approve implements reschedule.RescheduleService. The original booking is
// cancelled and a new booking is created for the requested session.
func (s *RescheduleServiceImpl) Approve(ctx context.Context, adminID, requestID string) (*reschedule.Request, error) {
	var newBookingID string
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		r, err := s.RescheduleRepository.GetByID(txCtx, requestID)
		if err != nil {
			return err
		}
		if r.Status != reschedule.StatusPending {
			return reschedule.ErrRequestAlreadyProcessed
		}

		original, err := s.BookingRepository.LockByID(txCtx, r.BookingID)
		if err != nil {
			return err
		}
		if original.Status != booking.StatusBooked {
			return reschedule.ErrBookingNotReschedulable
		}
		if err := s.BookingRepository.Transition(txCtx, original.ID, booking.StatusCancelled, nil); err != nil {
			if errors.Is(err, booking.ErrBookingNotBooked) {
				return reschedule.ErrBookingNotReschedulable
			}
			return err
		}

		newBookingID, err = s.place(txCtx, original, r)
		if err != nil {
			return err
		}

		now := s.now()
		r.Status = reschedule.StatusApproved
		r.ApprovedBy = &adminID
		r.ApprovedAt = &now
		r.NewBookingID = &newBookingID
		return s.RescheduleRepository.Resolve(txCtx, r)
	})
	if err != nil {
		return nil, err
	}

	r, err := s.RescheduleRepository.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	nb, err := s.BookingRepository.GetByID(ctx, newBookingID)
	if err != nil {
		return nil, err
	}
	slog.Info("Reschedule approved", "request_id", requestID, "admin_id", adminID, "new_booking_id", newBookingID)

	s.notifier.NotifyScheduleChange(ctx, *r, *nb)
	return r, nil
}

// place books the requested session. A cancelled row already holding the
// (enrollment, date, slot) key, left by an earlier move away from it, is
// reinstated instead of inserting a second row.
func (s *RescheduleServiceImpl) place(ctx context.Context, original *booking.Booking, r *reschedule.Request) (string, error) {
	date := utils.DateOf(r.NewDate)
	existing, err := s.BookingRepository.List(ctx, booking.BookingFilter{
		EnrollmentID: original.EnrollmentID,
		DateFrom:     &date,
		DateTo:       &date,
		TimeSlotID:   r.NewTimeSlotID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to look up target session: %w", err)
	}
	for _, b := range existing {
		if b.Status != booking.StatusCancelled || b.ClassEnrollmentID != original.ClassEnrollmentID {
			return "", booking.ErrDuplicateBooking
		}
		if err := s.BookingRepository.Reinstate(ctx, b.ID, r.NewTeacherID); err != nil {
			return "", err
		}
		return b.ID, nil
	}

	nb := &booking.Booking{
		EnrollmentID:      original.EnrollmentID,
		ClassEnrollmentID: original.ClassEnrollmentID,
		Date:              r.NewDate,
		TimeSlotID:        r.NewTimeSlotID,
		TeacherID:         r.NewTeacherID,
		Status:            booking.StatusBooked,
	}
	if err := s.BookingRepository.Create(ctx, nb); err != nil {
		return "", err
	}
	return nb.ID, nil
}

// Reject implements reschedule.RescheduleService.
func (s *RescheduleServiceImpl) Reject(ctx context.Context, adminID, requestID, reason string) (*reschedule.Request, error) {
	req := reschedule.RejectRequest{Reason: strings.TrimSpace(reason)}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		r, err := s.RescheduleRepository.GetByID(txCtx, requestID)
		if err != nil {
			return err
		}
		if r.Status != reschedule.StatusPending {
			return reschedule.ErrRequestAlreadyProcessed
		}

		now := s.now()
		r.Status = reschedule.StatusRejected
		r.ApprovedBy = &adminID
		r.ApprovedAt = &now
		r.RejectionReason = &req.Reason
		return s.RescheduleRepository.Resolve(txCtx, r)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Reschedule rejected", "request_id", requestID, "admin_id", adminID)
	return s.RescheduleRepository.GetByID(ctx, requestID)
}

// List implements reschedule.RescheduleService.
func (s *RescheduleServiceImpl) List(ctx context.Context, filter reschedule.Filter) ([]reschedule.Request, error) {
	requests, err := s.RescheduleRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list reschedule requests: %w", err)
	}
	if requests == nil {
		requests = []reschedule.Request{}
	}
	return requests, nil
}
