package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/booking"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/override"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/reschedule"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/utils"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/whatsapp"
)

// Config holds notification service configuration
type Config struct {
	GroupJID   string        // recap destination; recaps are skipped when empty
	RecapDelay time.Duration // default: 30 minutes after the slot ends
	Location   *time.Location
}

type service struct {
	sender       whatsapp.Sender
	dispatchRepo notification.DispatchRepository
	bookingRepo  booking.BookingRepository
	overrideRepo override.OverrideRepository
	slotRepo     catalog.TimeSlotRepository
	userRepo     user.UserRepository
	config       Config
}

// NewNotificationService creates the WhatsApp notification service.
func NewNotificationService(
	sender whatsapp.Sender,
	dispatchRepo notification.DispatchRepository,
	bookingRepo booking.BookingRepository,
	overrideRepo override.OverrideRepository,
	slotRepo catalog.TimeSlotRepository,
	userRepo user.UserRepository,
	cfg Config,
) notification.NotificationService {
	if cfg.RecapDelay == 0 {
		cfg.RecapDelay = 30 * time.Minute
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	return &service{
		sender:       sender,
		dispatchRepo: dispatchRepo,
		bookingRepo:  bookingRepo,
		overrideRepo: overrideRepo,
		slotRepo:     slotRepo,
		userRepo:     userRepo,
		config:       cfg,
	}
}

type outcome int

const (
	outcomeSent outcome = iota
	outcomeSkipped
	outcomeFailed
)

func (r *runResult) add(o outcome) {
	switch o {
	case outcomeSent:
		r.Sent++
	case outcomeSkipped:
		r.Skipped++
	default:
		r.Failed++
	}
}

type runResult struct{ notification.RunResult }

// dispatch sends one scheduled message at most once. The claim is released
// when delivery fails so the next run retries it.
func (s *service) dispatch(ctx context.Context, kind notification.Kind, key, recipient, message string) outcome {
	claimed, err := s.dispatchRepo.Claim(ctx, kind, key)
	if err != nil {
		slog.Error("Failed to claim notification dispatch", "kind", kind, "key", key, "error", err)
		metrics.MessagesSent.WithLabelValues(string(kind), "error").Inc()
		return outcomeFailed
	}
	if !claimed {
		return outcomeSkipped
	}

	if err := s.sender.Send(ctx, whatsapp.FormatRecipient(recipient), message); err != nil {
		slog.Warn("Failed to send WhatsApp message", "kind", kind, "key", key, "error", err)
		metrics.MessagesSent.WithLabelValues(string(kind), "error").Inc()
		if rerr := s.dispatchRepo.Release(ctx, kind, key); rerr != nil {
			slog.Error("Failed to release notification dispatch", "kind", kind, "key", key, "error", rerr)
		}
		return outcomeFailed
	}

	metrics.MessagesSent.WithLabelValues(string(kind), "ok").Inc()
	return outcomeSent
}

// send delivers an immediate message that is not tracked in the ledger.
func (s *service) send(ctx context.Context, kind notification.Kind, recipient, message string) {
	err := s.sender.Send(ctx, whatsapp.FormatRecipient(recipient), message)
	metrics.MessagesSent.WithLabelValues(string(kind), metrics.Result(err)).Inc()
	if err != nil {
		slog.Warn("Failed to send WhatsApp message", "kind", kind, "error", err)
	}
}

// sessionsBetween lists booked sessions in [from, to] with the effective
// teacher resolved into TeacherID, TeacherName and TeacherPhone.
func (s *service) sessionsBetween(ctx context.Context, from, to time.Time, statuses ...booking.Status) ([]booking.Booking, error) {
	if len(statuses) == 0 {
		statuses = []booking.Status{booking.StatusBooked}
	}
	bookings, err := s.bookingRepo.List(ctx, booking.BookingFilter{DateFrom: &from, DateTo: &to, Statuses: statuses})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	overrides, err := s.overrideRepo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list overrides: %w", err)
	}
	idx := override.NewIndex(overrides)

	substitutes := make([]string, 0)
	for i := range bookings {
		effective := idx.Resolve(bookings[i].TeacherID, bookings[i].Date, bookings[i].TimeSlotID)
		if effective != bookings[i].TeacherID {
			bookings[i].TeacherID = effective
			substitutes = append(substitutes, effective)
		}
	}
	if len(substitutes) == 0 {
		return bookings, nil
	}

	teachers, err := s.userRepo.GetByIDs(ctx, substitutes)
	if err != nil {
		return nil, fmt.Errorf("failed to load substitute teachers: %w", err)
	}
	for i := range bookings {
		if t, ok := teachers[bookings[i].TeacherID]; ok {
			bookings[i].TeacherName = t.Name
			bookings[i].TeacherPhone = t.PhoneNumber
		}
	}
	return bookings, nil
}

type group struct {
	id       string
	name     string
	phone    string
	sessions []booking.Booking
}

// groupBy keeps first-seen order of the keys, and the session order within
// each group.
func groupBy(sessions []booking.Booking, key func(b booking.Booking) (id, name, phone string)) []*group {
	index := make(map[string]*group)
	var groups []*group
	for _, b := range sessions {
		id, name, phone := key(b)
		g, ok := index[id]
		if !ok {
			g = &group{id: id, name: name, phone: phone}
			index[id] = g
			groups = append(groups, g)
		}
		g.sessions = append(g.sessions, b)
	}
	return groups
}

func byStudent(b booking.Booking) (string, string, string) {
	return b.StudentID, b.StudentName, b.StudentPhone
}

func byTeacher(b booking.Booking) (string, string, string) {
	return b.TeacherID, b.TeacherName, b.TeacherPhone
}

func (s *service) today(now time.Time) time.Time {
	return utils.Today(now, s.config.Location)
}

func (s *service) run(job string, result runResult) (notification.RunResult, error) {
	slog.Info("Notification run finished", "job", job, "sent", result.Sent, "skipped", result.Skipped, "failed", result.Failed)
	return result.RunResult, nil
}

// SendStudentRemindersH1 implements notification.NotificationService.
func (s *service) SendStudentRemindersH1(ctx context.Context, now time.Time) (notification.RunResult, error) {
	tomorrow := s.today(now).AddDate(0, 0, 1)
	sessions, err := s.sessionsBetween(ctx, tomorrow, tomorrow)
	if err != nil {
		return notification.RunResult{}, err
	}

	var result runResult
	for _, g := range groupBy(sessions, byStudent) {
		key := notification.DispatchKey(g.id, notification.DateKey(tomorrow))
		result.add(s.dispatch(ctx, notification.KindStudentReminderH1, key, g.phone,
			notification.StudentReminderH1(g.name, tomorrow, g.sessions)))
	}
	return s.run(string(notification.KindStudentReminderH1), result)
}

// SendStudentRemindersToday implements notification.NotificationService.
func (s *service) SendStudentRemindersToday(ctx context.Context, now time.Time) (notification.RunResult, error) {
	today := s.today(now)
	sessions, err := s.sessionsBetween(ctx, today, today)
	if err != nil {
		return notification.RunResult{}, err
	}

	var result runResult
	for _, g := range groupBy(sessions, byStudent) {
		key := notification.DispatchKey(g.id, notification.DateKey(today))
		result.add(s.dispatch(ctx, notification.KindStudentReminderToday, key, g.phone,
			notification.StudentReminderToday(g.name, today, g.sessions)))
	}
	return s.run(string(notification.KindStudentReminderToday), result)
}

// SendTeacherRemindersH1 implements notification.NotificationService. The
// reminder goes to whoever effectively teaches, so a substitute is told and
// the replaced teacher is not.
func (s *service) SendTeacherRemindersH1(ctx context.Context, now time.Time) (notification.RunResult, error) {
	tomorrow := s.today(now).AddDate(0, 0, 1)
	sessions, err := s.sessionsBetween(ctx, tomorrow, tomorrow)
	if err != nil {
		return notification.RunResult{}, err
	}

	var result runResult
	for _, g := range groupBy(sessions, byTeacher) {
		key := notification.DispatchKey(g.id, notification.DateKey(tomorrow))
		result.add(s.dispatch(ctx, notification.KindTeacherReminderH1, key, g.phone,
			notification.TeacherReminderH1(g.name, tomorrow, g.sessions)))
	}
	return s.run(string(notification.KindTeacherReminderH1), result)
}

// SendTeacherWeeklySummaries implements notification.NotificationService.
// The summary covers Monday to Sunday of the next week.
func (s *service) SendTeacherWeeklySummaries(ctx context.Context, now time.Time) (notification.RunResult, error) {
	today := s.today(now)
	ahead := 7 - utils.Weekday(today)
	weekStart := today.AddDate(0, 0, ahead)
	weekEnd := weekStart.AddDate(0, 0, 6)

	sessions, err := s.sessionsBetween(ctx, weekStart, weekEnd)
	if err != nil {
		return notification.RunResult{}, err
	}

	var result runResult
	for _, g := range groupBy(sessions, byTeacher) {
		days := make([]notification.DaySessions, 0, 7)
		for _, d := range utils.DatesBetween(weekStart, weekEnd) {
			day := notification.DaySessions{Date: d}
			for _, b := range g.sessions {
				if utils.DateOf(b.Date).Equal(d) {
					day.Sessions = append(day.Sessions, b)
				}
			}
			days = append(days, day)
		}

		key := notification.DispatchKey(g.id, notification.DateKey(weekStart))
		result.add(s.dispatch(ctx, notification.KindTeacherWeeklySummary, key, g.phone,
			notification.TeacherWeeklySummary(g.name, days)))
	}
	return s.run(string(notification.KindTeacherWeeklySummary), result)
}

// SendSessionRecaps implements notification.NotificationService. Each class
// of a slot is recapped once RecapDelay has passed since the slot ended.
// Sessions without recorded attendance are reported as unrecorded. Yesterday
// is scanned too so slots ending near midnight are not lost.
func (s *service) SendSessionRecaps(ctx context.Context, now time.Time) (notification.RunResult, error) {
	if s.config.GroupJID == "" {
		return notification.RunResult{}, nil
	}

	today := s.today(now)
	yesterday := today.AddDate(0, 0, -1)
	slots, err := s.slotRepo.List(ctx)
	if err != nil {
		return notification.RunResult{}, fmt.Errorf("failed to list time slots: %w", err)
	}
	sessions, err := s.sessionsBetween(ctx, yesterday, today, booking.StatusBooked, booking.StatusIzin, booking.StatusCompleted)
	if err != nil {
		return notification.RunResult{}, err
	}

	var result runResult
	for _, day := range []time.Time{yesterday, today} {
		for _, slot := range slots {
			end, err := utils.At(day, slot.EndTime, s.config.Location)
			if err != nil {
				slog.Warn("Skipping time slot with invalid end time", "timeslot_id", slot.ID, "end_time", slot.EndTime)
				continue
			}
			if now.Before(end.Add(s.config.RecapDelay)) {
				continue
			}

			var inSlot []booking.Booking
			for _, b := range sessions {
				if b.TimeSlotID == slot.ID && utils.DateOf(b.Date).Equal(day) {
					inSlot = append(inSlot, b)
				}
			}

			classes := groupBy(inSlot, func(b booking.Booking) (string, string, string) {
				return b.ClassName + "|" + b.TeacherID, b.ClassName, ""
			})
			for _, g := range classes {
				recap := recapOf(g.sessions)
				recap.Date = day
				recap.SlotName = slot.Name

				key := notification.DispatchKey(notification.DateKey(day), slot.ID, g.name, g.sessions[0].TeacherID)
				result.add(s.dispatch(ctx, notification.KindSessionRecap, key, s.config.GroupJID, notification.SessionRecap(recap)))
			}
		}
	}
	return s.run(string(notification.KindSessionRecap), result)
}

// recapOf tallies one class of a slot.
func recapOf(sessions []booking.Booking) notification.Recap {
	recap := notification.Recap{
		ClassName:   sessions[0].ClassName,
		TeacherName: sessions[0].TeacherName,
		Present:     []string{},
	}
	for _, b := range sessions {
		switch {
		case b.Status == booking.StatusIzin:
			recap.Tally.Add(booking.AttendanceIzin)
		case b.AttendanceStatus != nil:
			recap.Tally.Add(*b.AttendanceStatus)
			if *b.AttendanceStatus == booking.AttendanceHadir {
				recap.Present = append(recap.Present, b.StudentName)
			}
		default:
			recap.Unrecorded++
		}
	}
	sort.Strings(recap.Present)
	return recap
}

// NotifyStudentIzin implements notification.NotificationService.
func (s *service) NotifyStudentIzin(ctx context.Context, b booking.Booking) {
	teacherID, err := override.EffectiveTeacher(ctx, s.overrideRepo, b.TeacherID, b.Date, b.TimeSlotID)
	if err != nil {
		slog.Warn("Failed to resolve session teacher for izin notice", "booking_id", b.ID, "error", err)
		teacherID = b.TeacherID
	}
	teacher, err := s.userRepo.GetByID(ctx, teacherID)
	if err != nil {
		slog.Warn("Failed to load teacher for izin notice", "booking_id", b.ID, "teacher_id", teacherID, "error", err)
		return
	}

	reason := ""
	if b.IzinReason != nil {
		reason = *b.IzinReason
	}
	s.send(ctx, notification.KindStudentIzin, teacher.PhoneNumber,
		notification.StudentIzin(teacher.Name, b.StudentName, b.ClassName, b.Date, reason))
}

// NotifyScheduleChange implements notification.NotificationService. The
// student and the teacher of the new session are told.
func (s *service) NotifyScheduleChange(ctx context.Context, req reschedule.Request, newBooking booking.Booking) {
	prev := notification.SessionTime{Date: req.OriginalDate, SlotName: req.OriginalSlotName}
	next := notification.SessionTime{Date: newBooking.Date, SlotName: newBooking.SlotName}

	s.send(ctx, notification.KindScheduleChange, newBooking.StudentPhone,
		notification.StudentScheduleChange(newBooking.StudentName, newBooking.ClassName, prev, next, req.Reason))
	s.send(ctx, notification.KindScheduleChange, newBooking.TeacherPhone,
		notification.TeacherScheduleChange(newBooking.TeacherName, newBooking.StudentName, newBooking.ClassName, prev, next))
}
