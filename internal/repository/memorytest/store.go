// Package memorytest holds in-process implementations of the domain repositories.
// They mirror the constraints of the PostgreSQL schema and back the service
// tests.
package memorytest

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/availability"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/booking"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/override"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/portfolio"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/reschedule"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/utils"
	"github.com/google/uuid"
)

type skillKey struct {
	teacherID     string
	masterClassID string
}

type bookingKey struct {
	enrollmentID string
	date         string
	slotID       string
}

type refreshToken struct {
	userID    string
	expiresAt time.Time
	revoked   bool
}

type tables struct {
	users              map[string]user.User
	refreshTokens      map[string]refreshToken
	timeSlots          map[string]catalog.TimeSlot
	masterClasses      map[string]catalog.MasterClass
	programs           map[string]catalog.Program
	programClasses     map[string]catalog.ProgramClass
	syllabi            map[string]catalog.SyllabusItem
	skills             map[skillKey]bool
	availability       map[availability.Availability]bool
	enrollments        map[string]enrollment.Enrollment
	classEnrollments   map[string]enrollment.ClassEnrollment
	schedules          map[string]enrollment.WeeklySchedule
	bookings           map[string]booking.Booking
	bookingKeys        map[bookingKey]string
	attendances        map[string]booking.Attendance
	attendanceRequests map[string]booking.AttendanceRequest
	reschedules        map[string]reschedule.Request
	overrides          map[string]override.Override
	dispatches         map[string]bool
	portfolios         map[string]portfolio.Portfolio
}

func newTables() tables {
	return tables{
		users:              make(map[string]user.User),
		refreshTokens:      make(map[string]refreshToken),
		timeSlots:          make(map[string]catalog.TimeSlot),
		masterClasses:      make(map[string]catalog.MasterClass),
		programs:           make(map[string]catalog.Program),
		programClasses:     make(map[string]catalog.ProgramClass),
		syllabi:            make(map[string]catalog.SyllabusItem),
		skills:             make(map[skillKey]bool),
		availability:       make(map[availability.Availability]bool),
		enrollments:        make(map[string]enrollment.Enrollment),
		classEnrollments:   make(map[string]enrollment.ClassEnrollment),
		schedules:          make(map[string]enrollment.WeeklySchedule),
		bookings:           make(map[string]booking.Booking),
		bookingKeys:        make(map[bookingKey]string),
		attendances:        make(map[string]booking.Attendance),
		attendanceRequests: make(map[string]booking.AttendanceRequest),
		reschedules:        make(map[string]reschedule.Request),
		overrides:          make(map[string]override.Override),
		dispatches:         make(map[string]bool),
		portfolios:         make(map[string]portfolio.Portfolio),
	}
}

func (t tables) clone() tables {
	return tables{
		users:              maps.Clone(t.users),
		refreshTokens:      maps.Clone(t.refreshTokens),
		timeSlots:          maps.Clone(t.timeSlots),
		masterClasses:      maps.Clone(t.masterClasses),
		programs:           maps.Clone(t.programs),
		programClasses:     maps.Clone(t.programClasses),
		syllabi:            maps.Clone(t.syllabi),
		skills:             maps.Clone(t.skills),
		availability:       maps.Clone(t.availability),
		enrollments:        maps.Clone(t.enrollments),
		classEnrollments:   maps.Clone(t.classEnrollments),
		schedules:          maps.Clone(t.schedules),
		bookings:           maps.Clone(t.bookings),
		bookingKeys:        maps.Clone(t.bookingKeys),
		attendances:        maps.Clone(t.attendances),
		attendanceRequests: maps.Clone(t.attendanceRequests),
		reschedules:        maps.Clone(t.reschedules),
		overrides:          maps.Clone(t.overrides),
		dispatches:         maps.Clone(t.dispatches),
		portfolios:         maps.Clone(t.portfolios),
	}
}

// Store is an in-memory database. It also implements database.Transactor:
// a failed transaction restores the tables as they were when it began.
type Store struct {
	mu  sync.Mutex
	t   tables
	seq int64
}

func NewStore() *Store {
	return &Store{t: newTables()}
}

type txKey struct{}

// WithinTransaction implements database.Transactor.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.mu.Lock()
	snapshot := s.t.clone()
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.t = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func newID() string {
	return uuid.NewString()
}

// tick returns a strictly increasing timestamp so creation order survives
// sorting by created_at.
func (s *Store) tick() time.Time {
	s.seq++
	return time.Unix(1_700_000_000+s.seq, 0).UTC()
}

func dateKey(t time.Time) string {
	return utils.DateOf(t).Format(utils.DateLayout)
}

// The helpers below fill the join fields the SQL queries select. Callers
// hold s.mu.

func (s *Store) className(programClassID string) string {
	pc := s.t.programClasses[programClassID]
	if pc.Name != nil && *pc.Name != "" {
		return *pc.Name
	}
	return s.t.masterClasses[pc.MasterClassID].Name
}

func (s *Store) decorateClassEnrollment(ce enrollment.ClassEnrollment) enrollment.ClassEnrollment {
	pc := s.t.programClasses[ce.ProgramClassID]
	ce.ClassName = s.className(ce.ProgramClassID)
	ce.MasterClassID = pc.MasterClassID
	ce.TotalSessions = pc.TotalSessions
	ce.SessionsPerWeek = pc.SessionsPerWeek
	ce.IsBatch = pc.IsBatch
	ce.MaxIzin = pc.MaxIzin
	ce.DisplayOrder = pc.DisplayOrder
	return ce
}

func (s *Store) decorateEnrollment(e enrollment.Enrollment) enrollment.Enrollment {
	student := s.t.users[e.StudentID]
	e.StudentName = student.Name
	e.StudentPhone = student.PhoneNumber
	e.ProgramName = s.t.programs[e.ProgramID].Name
	return e
}

func (s *Store) decorateSchedule(ws enrollment.WeeklySchedule) enrollment.WeeklySchedule {
	slot := s.t.timeSlots[ws.TimeSlotID]
	e := s.t.enrollments[ws.EnrollmentID]
	ce := s.t.classEnrollments[ws.ClassEnrollmentID]
	ws.TeacherName = s.t.users[ws.TeacherID].Name
	ws.TimeSlotName = slot.Name
	ws.StartTime = slot.StartTime
	ws.EndTime = slot.EndTime
	ws.StudentID = e.StudentID
	ws.StudentName = s.t.users[e.StudentID].Name
	ws.ClassName = s.className(ce.ProgramClassID)
	ws.FirstClassDate = e.FirstClassDate
	return ws
}

func (s *Store) attendanceFor(bookingID string) (booking.Attendance, bool) {
	for _, a := range s.t.attendances {
		if a.BookingID == bookingID {
			return a, true
		}
	}
	return booking.Attendance{}, false
}

func (s *Store) decorateBooking(b booking.Booking) booking.Booking {
	e := s.t.enrollments[b.EnrollmentID]
	student := s.t.users[e.StudentID]
	teacher := s.t.users[b.TeacherID]
	slot := s.t.timeSlots[b.TimeSlotID]
	ce := s.t.classEnrollments[b.ClassEnrollmentID]

	b.StudentID = e.StudentID
	b.StudentName = student.Name
	b.StudentPhone = student.PhoneNumber
	b.ProgramName = s.t.programs[e.ProgramID].Name
	b.ClassName = s.className(ce.ProgramClassID)
	b.TeacherName = teacher.Name
	b.TeacherPhone = teacher.PhoneNumber
	b.SlotName = slot.Name
	b.SlotStart = slot.StartTime
	b.SlotEnd = slot.EndTime
	b.AttendanceStatus = nil
	if a, ok := s.attendanceFor(b.ID); ok {
		status := a.Status
		b.AttendanceStatus = &status
	}
	return b
}
