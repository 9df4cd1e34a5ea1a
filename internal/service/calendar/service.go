package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/booking"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/override"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/utils"
)

// UpcomingDays is how far ahead the attendance sheet lists a teacher's sessions.
const UpcomingDays = 7

type calendarServiceImpl struct {
	bookingRepo    booking.BookingRepository
	scheduleRepo   enrollment.WeeklyScheduleRepository
	enrollmentRepo enrollment.EnrollmentRepository
	classRepo      enrollment.ClassEnrollmentRepository
	overrideRepo   override.OverrideRepository
	slotRepo       catalog.TimeSlotRepository
	userRepo       user.UserRepository
	now            func() time.Time
	loc            *time.Location
}

func NewCalendarService(
	bookingRepo booking.BookingRepository,
	scheduleRepo enrollment.WeeklyScheduleRepository,
	enrollmentRepo enrollment.EnrollmentRepository,
	classRepo enrollment.ClassEnrollmentRepository,
	overrideRepo override.OverrideRepository,
	slotRepo catalog.TimeSlotRepository,
	userRepo user.UserRepository,
	now func() time.Time,
	loc *time.Location,
) calendar.CalendarService {
	return &calendarServiceImpl{
		bookingRepo:    bookingRepo,
		scheduleRepo:   scheduleRepo,
		enrollmentRepo: enrollmentRepo,
		classRepo:      classRepo,
		overrideRepo:   overrideRepo,
		slotRepo:       slotRepo,
		userRepo:       userRepo,
		now:            now,
		loc:            loc,
	}
}

func (s *calendarServiceImpl) overrideIndex(ctx context.Context, from, to time.Time) (*override.Index, error) {
	overrides, err := s.overrideRepo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list overrides: %w", err)
	}
	return override.NewIndex(overrides), nil
}

// withTeacherNames fills the effective teacher's name of every occurrence.
func (s *calendarServiceImpl) withTeacherNames(ctx context.Context, occurrences []calendar.Occurrence) ([]calendar.Occurrence, error) {
	seen := make(map[string]bool)
	ids := make([]string, 0)
	for _, o := range occurrences {
		if !seen[o.TeacherID] {
			seen[o.TeacherID] = true
			ids = append(ids, o.TeacherID)
		}
	}
	if len(ids) == 0 {
		return occurrences, nil
	}

	teachers, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load teachers: %w", err)
	}
	for i := range occurrences {
		occurrences[i].TeacherName = teachers[occurrences[i].TeacherID].Name
	}
	return occurrences, nil
}

// TeacherCalendar implements calendar.CalendarService. A teacher sees the
// sessions they effectively teach: their own minus the ones handed to a
// substitute, plus the ones they cover for someone else.
func (s *calendarServiceImpl) TeacherCalendar(ctx context.Context, teacherID string, from, to time.Time) ([]calendar.Occurrence, error) {
	idx, err := s.overrideIndex(ctx, from, to)
	if err != nil {
		return nil, err
	}
	teacherIDs := append([]string{teacherID}, idx.SubstitutedFor(teacherID)...)

	patterns, err := s.scheduleRepo.ListActive(ctx, teacherIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list weekly schedules: %w", err)
	}
	bookings, err := s.bookingRepo.List(ctx, booking.BookingFilter{DateFrom: &from, DateTo: &to})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	occurrences := calendar.ForTeacher(calendar.Project(patterns, bookings, from, to, idx), teacherID)
	return s.withTeacherNames(ctx, occurrences)
}

// StudentCalendar implements calendar.CalendarService.
func (s *calendarServiceImpl) StudentCalendar(ctx context.Context, studentID string, from, to time.Time) ([]calendar.Occurrence, error) {
	idx, err := s.overrideIndex(ctx, from, to)
	if err != nil {
		return nil, err
	}

	active := enrollment.StatusActive
	enrollments, err := s.enrollmentRepo.List(ctx, enrollment.EnrollmentFilter{StudentID: studentID, Status: &active})
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	var patterns []enrollment.WeeklySchedule
	for _, e := range enrollments {
		classes, err := s.classRepo.ListByEnrollment(ctx, e.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list class enrollments: %w", err)
		}
		running := make(map[string]bool, len(classes))
		for _, c := range classes {
			running[c.ID] = c.Status == enrollment.ClassStatusActive
		}

		schedules, err := s.scheduleRepo.ListByEnrollment(ctx, e.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list weekly schedules: %w", err)
		}
		for _, ws := range schedules {
			if running[ws.ClassEnrollmentID] {
				patterns = append(patterns, ws)
			}
		}
	}

	bookings, err := s.bookingRepo.List(ctx, booking.BookingFilter{StudentID: studentID, DateFrom: &from, DateTo: &to})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return s.withTeacherNames(ctx, calendar.Project(patterns, bookings, from, to, idx))
}

// EffectiveTeacherFor implements calendar.CalendarService.
func (s *calendarServiceImpl) EffectiveTeacherFor(ctx context.Context, bookingID string) (string, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return "", err
	}
	return override.EffectiveTeacher(ctx, s.overrideRepo, b.TeacherID, b.Date, b.TimeSlotID)
}

// AttendanceSheet implements calendar.CalendarService.
func (s *calendarServiceImpl) AttendanceSheet(ctx context.Context, teacherID string, date time.Time, slotID string) (*calendar.AttendanceSheet, error) {
	date = utils.DateOf(date)
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	start, err := utils.At(date, slot.StartTime, s.loc)
	if err != nil {
		return nil, fmt.Errorf("invalid time slot clock: %w", err)
	}
	end, err := utils.At(date, slot.EndTime, s.loc)
	if err != nil {
		return nil, fmt.Errorf("invalid time slot clock: %w", err)
	}

	idx, err := s.overrideIndex(ctx, date, date)
	if err != nil {
		return nil, err
	}
	candidates, err := s.bookingRepo.List(ctx, booking.BookingFilter{
		TeacherIDs: append([]string{teacherID}, idx.SubstitutedFor(teacherID)...),
		DateFrom:   &date,
		DateTo:     &date,
		TimeSlotID: slotID,
		Statuses:   []booking.Status{booking.StatusBooked, booking.StatusIzin},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	sheet := &calendar.AttendanceSheet{
		Date:     date,
		TimeSlot: *slot,
		Window:   booking.WindowAt(s.now(), start, end),
		Bookings: make([]booking.Booking, 0, len(candidates)),
	}
	for _, b := range candidates {
		if idx.Resolve(b.TeacherID, b.Date, b.TimeSlotID) == teacherID {
			sheet.Bookings = append(sheet.Bookings, b)
		}
	}

	today := utils.Today(s.now(), s.loc)
	sheet.Upcoming, err = s.TeacherCalendar(ctx, teacherID, today, today.AddDate(0, 0, UpcomingDays-1))
	if err != nil {
		return nil, err
	}
	return sheet, nil
}

// MasterSchedule implements calendar.CalendarService.
func (s *calendarServiceImpl) MasterSchedule(ctx context.Context) ([]calendar.MasterDay, error) {
	slots, err := s.slotRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list time slots: %w", err)
	}
	schedules, err := s.scheduleRepo.ListActive(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list weekly schedules: %w", err)
	}
	return calendar.BuildMasterSchedule(slots, schedules), nil
}

func (s *calendarServiceImpl) requireTeacher(ctx context.Context, id string) error {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !u.IsTeacher() {
		return user.ErrNotATeacher
	}
	return nil
}

// CreateOverride implements calendar.CalendarService. A second override for
// the same date, slot and original teacher replaces the first.
func (s *calendarServiceImpl) CreateOverride(ctx context.Context, adminID string, req override.CreateOverrideRequest) (*override.Override, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	if err := s.requireTeacher(ctx, req.OriginalTeacherID); err != nil {
		return nil, err
	}
	if err := s.requireTeacher(ctx, req.SubstituteTeacherID); err != nil {
		return nil, err
	}
	if _, err := s.slotRepo.GetByID(ctx, req.TimeSlotID); err != nil {
		return nil, err
	}

	o := &override.Override{
		Date:                date,
		TimeSlotID:          req.TimeSlotID,
		OriginalTeacherID:   req.OriginalTeacherID,
		SubstituteTeacherID: req.SubstituteTeacherID,
		CreatedBy:           adminID,
		Reason:              req.Reason,
	}
	if err := s.overrideRepo.Upsert(ctx, o); err != nil {
		return nil, err
	}

	slog.Info("Teacher override saved", "date", req.Date, "timeslot_id", req.TimeSlotID,
		"original_teacher_id", req.OriginalTeacherID, "substitute_teacher_id", req.SubstituteTeacherID)
	return s.overrideRepo.Find(ctx, date, req.TimeSlotID, req.OriginalTeacherID)
}

// DeleteOverride implements calendar.CalendarService.
func (s *calendarServiceImpl) DeleteOverride(ctx context.Context, id string) error {
	return s.overrideRepo.Delete(ctx, id)
}

// ListOverrides implements calendar.CalendarService.
func (s *calendarServiceImpl) ListOverrides(ctx context.Context, from, to time.Time) ([]override.Override, error) {
	overrides, err := s.overrideRepo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list overrides: %w", err)
	}
	if overrides == nil {
		overrides = []override.Override{}
	}
	return overrides, nil
}
