package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/availability"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/booking"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/onboarding"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/utils"
)

type onboardingServiceImpl struct {
	tx             database.Transactor
	enrollmentRepo enrollment.EnrollmentRepository
	classRepo      enrollment.ClassEnrollmentRepository
	scheduleRepo   enrollment.WeeklyScheduleRepository
	bookingRepo    booking.BookingRepository
	availability   availability.AvailabilityService
	now            func() time.Time
	loc            *time.Location
}

func NewOnboardingService(
	tx database.Transactor,
	enrollmentRepo enrollment.EnrollmentRepository,
	classRepo enrollment.ClassEnrollmentRepository,
	scheduleRepo enrollment.WeeklyScheduleRepository,
	bookingRepo booking.BookingRepository,
	availabilityService availability.AvailabilityService,
	now func() time.Time,
	loc *time.Location,
) onboarding.OnboardingService {
	return &onboardingServiceImpl{
		tx:             tx,
		enrollmentRepo: enrollmentRepo,
		classRepo:      classRepo,
		scheduleRepo:   scheduleRepo,
		bookingRepo:    bookingRepo,
		availability:   availabilityService,
		now:            now,
		loc:            loc,
	}
}

func (s *onboardingServiceImpl) today() time.Time {
	return utils.Today(s.now(), s.loc)
}

func (s *onboardingServiceImpl) pendingEnrollment(ctx context.Context, studentID string) (*enrollment.Enrollment, error) {
	e, err := s.enrollmentRepo.GetByStudentAndStatus(ctx, studentID, enrollment.StatusPendingSchedule)
	if err != nil {
		if errors.Is(err, enrollment.ErrEnrollmentNotFound) {
			return nil, onboarding.ErrNoPendingEnrollment
		}
		return nil, fmt.Errorf("failed to get pending enrollment: %w", err)
	}
	return e, nil
}

// evaluate computes the wizard state of a pending enrollment. When every
// class has its weekly patterns the enrollment moves to pending_first_class.
func (s *onboardingServiceImpl) evaluate(ctx context.Context, e *enrollment.Enrollment) (*onboarding.WizardState, error) {
	classes, err := s.classRepo.ListByEnrollment(ctx, e.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list class enrollments: %w", err)
	}
	schedules, err := s.scheduleRepo.ListByEnrollment(ctx, e.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list weekly schedules: %w", err)
	}

	state := &onboarding.WizardState{
		EnrollmentID: e.ID,
		ProgramName:  e.ProgramName,
		Options:      []availability.SlotOption{},
		Schedules:    schedules,
	}
	if state.Schedules == nil {
		state.Schedules = []enrollment.WeeklySchedule{}
	}
	for _, c := range classes {
		if c.IsBatch {
			continue
		}
		state.Progress.Required += c.SessionsPerWeek
		state.Progress.Scheduled += c.SessionsPerWeek - onboarding.PatternsNeeded(c, schedules)
	}

	next, remaining := onboarding.NextClassToSchedule(classes, schedules)
	if next == nil {
		state.Done = true
		if e.FirstClassDate != nil {
			return state, s.reactivate(ctx, e)
		}
		if err := s.enrollmentRepo.UpdateStatus(ctx, e.ID, enrollment.StatusPendingFirstClass); err != nil {
			return nil, fmt.Errorf("failed to update enrollment status: %w", err)
		}
		slog.Info("Weekly schedule completed", "enrollment_id", e.ID, "patterns", len(schedules))
		return state, nil
	}

	options, err := s.availability.ListOpenSlots(ctx, e.ID, next.ID)
	if err != nil {
		return nil, err
	}
	state.Class = next
	state.RemainingPatterns = remaining
	if options != nil {
		state.Options = options
	}
	return state, nil
}

// reactivate returns a re-onboarded enrollment to active and expands its new
// patterns from today, or from the first class date if that is still ahead.
func (s *onboardingServiceImpl) reactivate(ctx context.Context, e *enrollment.Enrollment) error {
	if err := s.enrollmentRepo.UpdateStatus(ctx, e.ID, enrollment.StatusActive); err != nil {
		return fmt.Errorf("failed to reactivate enrollment: %w", err)
	}
	from := s.today()
	if first := utils.DateOf(*e.FirstClassDate); first.After(from) {
		from = first
	}
	created, err := s.expand(ctx, e.ID, from)
	if err != nil {
		return err
	}
	slog.Info("Enrollment rescheduled", "enrollment_id", e.ID, "bookings_created", created)
	return nil
}

// GetWizard implements onboarding.OnboardingService.
func (s *onboardingServiceImpl) GetWizard(ctx context.Context, studentID string) (*onboarding.WizardState, error) {
	var state *onboarding.WizardState
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		e, err := s.pendingEnrollment(txCtx, studentID)
		if err != nil {
			return err
		}
		state, err = s.evaluate(txCtx, e)
		return err
	})
	if err != nil {
		return nil, err
	}

	if !state.Done && len(state.Options) == 0 {
		return nil, onboarding.ErrNoSlotOptions
	}
	return state, nil
}

// PickSlot implements onboarding.OnboardingService. The pick must be one of
// the options the availability index offers right now.
func (s *onboardingServiceImpl) PickSlot(ctx context.Context, studentID string, req onboarding.PickSlotRequest) (*onboarding.WizardState, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var state *onboarding.WizardState
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		e, err := s.pendingEnrollment(txCtx, studentID)
		if err != nil {
			return err
		}

		class, err := s.classRepo.GetByID(txCtx, req.ClassEnrollmentID)
		if err != nil {
			return err
		}
		if class.EnrollmentID != e.ID {
			return enrollment.ErrClassEnrollmentNotOwned
		}

		schedules, err := s.scheduleRepo.ListByEnrollment(txCtx, e.ID)
		if err != nil {
			return fmt.Errorf("failed to list weekly schedules: %w", err)
		}
		if onboarding.PatternsNeeded(*class, schedules) == 0 {
			return onboarding.ErrClassNotSchedulable
		}

		options, err := s.availability.ListOpenSlots(txCtx, e.ID, class.ID)
		if err != nil {
			return err
		}
		offered := false
		for _, o := range options {
			if o.Matches(req.TeacherID, req.DayOfWeek, req.TimeSlotID) {
				offered = true
				break
			}
		}
		if !offered {
			return onboarding.ErrSlotNotAvailable
		}

		ws := &enrollment.WeeklySchedule{
			EnrollmentID:      e.ID,
			ClassEnrollmentID: class.ID,
			TeacherID:         req.TeacherID,
			DayOfWeek:         req.DayOfWeek,
			TimeSlotID:        req.TimeSlotID,
		}
		if err := s.scheduleRepo.Create(txCtx, ws); err != nil {
			if errors.Is(err, enrollment.ErrScheduleSlotTaken) {
				return onboarding.ErrSlotNotAvailable
			}
			return fmt.Errorf("failed to create weekly schedule: %w", err)
		}

		state, err = s.evaluate(txCtx, e)
		return err
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

// FirstClassDateOptions implements onboarding.OnboardingService.
func (s *onboardingServiceImpl) FirstClassDateOptions(ctx context.Context, studentID string) ([]onboarding.DateOption, error) {
	e, err := s.enrollmentRepo.GetByStudentAndStatus(ctx, studentID, enrollment.StatusPendingFirstClass)
	if err != nil {
		if errors.Is(err, enrollment.ErrEnrollmentNotFound) {
			return nil, onboarding.ErrNotPendingFirstClass
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	schedules, err := s.scheduleRepo.ListByEnrollment(ctx, e.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list weekly schedules: %w", err)
	}
	options := onboarding.FirstClassDateOptions(schedules, s.today())
	if options == nil {
		options = []onboarding.DateOption{}
	}
	return options, nil
}

// firstClassEnrollment finds the enrollment waiting for its first class date.
// A student whose newest enrollment already has a date gets
// ErrFirstClassDateAlreadySet.
func (s *onboardingServiceImpl) firstClassEnrollment(ctx context.Context, studentID string) (*enrollment.Enrollment, error) {
	enrollments, err := s.enrollmentRepo.List(ctx, enrollment.EnrollmentFilter{StudentID: studentID})
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	for i := range enrollments {
		if enrollments[i].Status == enrollment.StatusPendingFirstClass {
			return &enrollments[i], nil
		}
	}
	if len(enrollments) > 0 && enrollments[0].FirstClassDate != nil {
		return nil, enrollment.ErrFirstClassDateAlreadySet
	}
	return nil, onboarding.ErrNotPendingFirstClass
}

// SetFirstClassDate implements onboarding.OnboardingService.
func (s *onboardingServiceImpl) SetFirstClassDate(ctx context.Context, studentID string, req onboarding.SetFirstClassDateRequest) (*onboarding.FirstClassResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	result := &onboarding.FirstClassResult{}
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		e, err := s.firstClassEnrollment(txCtx, studentID)
		if err != nil {
			return err
		}
		if e.FirstClassDate != nil {
			return enrollment.ErrFirstClassDateAlreadySet
		}
		if date.Before(s.today()) {
			return onboarding.ErrDateInPast
		}

		schedules, err := s.scheduleRepo.ListByEnrollment(txCtx, e.ID)
		if err != nil {
			return fmt.Errorf("failed to list weekly schedules: %w", err)
		}
		if !onboarding.ScheduledOn(schedules, date) {
			return onboarding.ErrDateNotInSchedule
		}

		if err := s.enrollmentRepo.SetFirstClassDate(txCtx, e.ID, date); err != nil {
			return err
		}
		if err := s.enrollmentRepo.UpdateStatus(txCtx, e.ID, enrollment.StatusActive); err != nil {
			return fmt.Errorf("failed to activate enrollment: %w", err)
		}

		result.BookingsCreated, err = s.expand(txCtx, e.ID, date)
		if err != nil {
			return err
		}

		result.Enrollment, err = s.enrollmentRepo.GetByID(txCtx, e.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Enrollment activated", "enrollment_id", result.Enrollment.ID, "first_class_date", req.Date, "bookings_created", result.BookingsCreated)
	return result, nil
}

// expand materializes the patterns of the enrollment's unfinished classes
// over [from, from + ExpansionWeeks]. Existing (enrollment, date, slot) rows
// are left alone, so expanding twice creates nothing new.
func (s *onboardingServiceImpl) expand(ctx context.Context, enrollmentID string, from time.Time) (int, error) {
	classes, err := s.classRepo.ListByEnrollment(ctx, enrollmentID)
	if err != nil {
		return 0, fmt.Errorf("failed to list class enrollments: %w", err)
	}
	active := make(map[string]bool, len(classes))
	for _, c := range classes {
		active[c.ID] = c.Status != enrollment.ClassStatusCompleted
	}

	schedules, err := s.scheduleRepo.ListByEnrollment(ctx, enrollmentID)
	if err != nil {
		return 0, fmt.Errorf("failed to list weekly schedules: %w", err)
	}
	patterns := make([]enrollment.WeeklySchedule, 0, len(schedules))
	for _, ws := range schedules {
		if active[ws.ClassEnrollmentID] {
			patterns = append(patterns, ws)
		}
	}

	created := 0
	for _, p := range onboarding.PlanOccurrences(patterns, from, onboarding.ExpansionWeeks) {
		b := &booking.Booking{
			EnrollmentID:      p.EnrollmentID,
			ClassEnrollmentID: p.ClassEnrollmentID,
			Date:              p.Date,
			TimeSlotID:        p.TimeSlotID,
			TeacherID:         p.TeacherID,
			Status:            booking.StatusBooked,
		}
		inserted, err := s.bookingRepo.CreateIfAbsent(ctx, b)
		if err != nil {
			return created, fmt.Errorf("failed to create booking: %w", err)
		}
		if inserted {
			created++
		}
	}
	return created, nil
}

// RemoveWeeklySchedule implements onboarding.OnboardingService. The pattern's
// booked sessions that have not started yet go with it, and the enrollment
// returns to pending_schedule so the student picks a replacement in the wizard.
func (s *onboardingServiceImpl) RemoveWeeklySchedule(ctx context.Context, id string) (int, error) {
	now := s.now()
	today := s.today()

	removed := 0
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		ws, err := s.scheduleRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		e, err := s.enrollmentRepo.GetByID(txCtx, ws.EnrollmentID)
		if err != nil {
			return err
		}
		if e.Status == enrollment.StatusCompleted {
			return enrollment.ErrInvalidStatus
		}

		bookings, err := s.bookingRepo.List(txCtx, booking.BookingFilter{
			ClassEnrollmentID: ws.ClassEnrollmentID,
			DateFrom:          &today,
			TimeSlotID:        ws.TimeSlotID,
			Statuses:          []booking.Status{booking.StatusBooked},
		})
		if err != nil {
			return fmt.Errorf("failed to list bookings: %w", err)
		}
		for _, b := range bookings {
			if utils.Weekday(b.Date) != ws.DayOfWeek {
				continue
			}
			start, err := utils.At(b.Date, b.SlotStart, s.loc)
			if err != nil {
				return err
			}
			if !start.After(now) {
				continue
			}
			if err := s.bookingRepo.Delete(txCtx, b.ID); err != nil {
				return fmt.Errorf("failed to delete booking: %w", err)
			}
			removed++
		}

		if err := s.scheduleRepo.Delete(txCtx, ws.ID); err != nil {
			return err
		}
		if e.Status != enrollment.StatusPendingSchedule {
			if err := s.enrollmentRepo.UpdateStatus(txCtx, e.ID, enrollment.StatusPendingSchedule); err != nil {
				return fmt.Errorf("failed to update enrollment status: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.Info("Weekly schedule removed", "schedule_id", id, "bookings_removed", removed)
	return removed, nil
}

// ExpandBookings implements onboarding.OnboardingService.
func (s *onboardingServiceImpl) ExpandBookings(ctx context.Context, enrollmentID string, from time.Time) (int, error) {
	var created int
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.enrollmentRepo.GetByID(txCtx, enrollmentID); err != nil {
			return err
		}
		var err error
		created, err = s.expand(txCtx, enrollmentID, from)
		return err
	})
	return created, err
}

// RefreshHorizon implements onboarding.OnboardingService. Each enrollment
// expands in its own transaction; a failing one does not stop the rest.
func (s *onboardingServiceImpl) RefreshHorizon(ctx context.Context, today time.Time) (int, error) {
	status := enrollment.StatusActive
	enrollments, err := s.enrollmentRepo.List(ctx, enrollment.EnrollmentFilter{Status: &status})
	if err != nil {
		return 0, fmt.Errorf("failed to list active enrollments: %w", err)
	}

	today = utils.DateOf(today)
	total := 0
	var errs []error
	for _, e := range enrollments {
		if e.FirstClassDate == nil {
			continue
		}
		from := today
		if first := utils.DateOf(*e.FirstClassDate); first.After(from) {
			from = first
		}

		n, err := s.ExpandBookings(ctx, e.ID, from)
		if err != nil {
			slog.Error("Failed to refresh booking horizon", "enrollment_id", e.ID, "error", err)
			errs = append(errs, err)
			continue
		}
		total += n
	}

	slog.Info("Booking horizon refreshed", "enrollments", len(enrollments), "bookings_created", total)
	return total, errors.Join(errs...)
}
