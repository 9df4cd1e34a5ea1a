package memorytest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/availability"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/booking"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
)

// SeedPassword is the password of every user created by Seed.User.
const SeedPassword = "password123"

// Seed creates fixtures through the store's repositories and fails the test
// on any error.
type Seed struct {
	s   *Store
	t   testing.TB
	ctx context.Context
}

func (s *Store) Seed(t testing.TB) Seed {
	return Seed{s: s, t: t, ctx: context.Background()}
}

func (sd Seed) must(err error) {
	sd.t.Helper()
	if err != nil {
		sd.t.Fatalf("seed: %v", err)
	}
}

func (sd Seed) User(name string, role user.Role) *user.User {
	sd.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.MinCost)
	sd.must(err)
	hashed := string(hash)

	u := &user.User{
		Name:         name,
		Email:        strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@school.test",
		PhoneNumber:  fmt.Sprintf("62812%07d", len(sd.s.t.users)+1),
		PasswordHash: &hashed,
		Role:         role,
	}
	sd.must(sd.s.Users().Create(sd.ctx, u))
	return u
}

func (sd Seed) Slot(name, start, end string) *catalog.TimeSlot {
	sd.t.Helper()
	slot := &catalog.TimeSlot{Name: name, StartTime: start, EndTime: end}
	sd.must(sd.s.TimeSlots().Create(sd.ctx, slot))
	return slot
}

func (sd Seed) MasterClass(name string) *catalog.MasterClass {
	sd.t.Helper()
	mc := &catalog.MasterClass{Name: name, DefaultMaxIzin: 2}
	sd.must(sd.s.MasterClasses().Create(sd.ctx, mc))
	return mc
}

// ClassSpec describes one program class for Seed.Program.
type ClassSpec struct {
	MasterClass     *catalog.MasterClass
	TotalSessions   int
	SessionsPerWeek int
	MaxIzin         int
	IsBatch         bool
}

func (sd Seed) Program(name string, classes ...ClassSpec) *catalog.Program {
	sd.t.Helper()

	batchOnly := len(classes) > 0
	for _, c := range classes {
		batchOnly = batchOnly && c.IsBatch
	}

	p := &catalog.Program{Name: name, IsBatchBased: batchOnly}
	sd.must(sd.s.Programs().Create(sd.ctx, p))
	for _, c := range classes {
		pc := &catalog.ProgramClass{
			ProgramID:       p.ID,
			MasterClassID:   c.MasterClass.ID,
			TotalSessions:   c.TotalSessions,
			SessionsPerWeek: c.SessionsPerWeek,
			IsBatch:         c.IsBatch,
			MaxIzin:         c.MaxIzin,
		}
		sd.must(sd.s.Programs().AddClass(sd.ctx, pc))
	}

	loaded, err := sd.s.Programs().GetByID(sd.ctx, p.ID)
	sd.must(err)
	return loaded
}

// Enroll enrolls student in program with one class enrollment per class, in
// display order.
func (sd Seed) Enroll(student *user.User, program *catalog.Program, status enrollment.Status) (*enrollment.Enrollment, []enrollment.ClassEnrollment) {
	sd.t.Helper()

	e := &enrollment.Enrollment{StudentID: student.ID, ProgramID: program.ID, Status: status}
	sd.must(sd.s.Enrollments().Create(sd.ctx, e))
	for _, pc := range program.Classes {
		ce := &enrollment.ClassEnrollment{
			EnrollmentID:      e.ID,
			ProgramClassID:    pc.ID,
			SessionsRemaining: pc.TotalSessions,
			Status:            enrollment.ClassStatusActive,
		}
		sd.must(sd.s.ClassEnrollments().Create(sd.ctx, ce))
	}

	classes, err := sd.s.ClassEnrollments().ListByEnrollment(sd.ctx, e.ID)
	sd.must(err)
	loaded, err := sd.s.Enrollments().GetByID(sd.ctx, e.ID)
	sd.must(err)
	return loaded, classes
}

// Activate moves an enrollment to active with the given first class date.
func (sd Seed) Activate(e *enrollment.Enrollment, firstClass time.Time) {
	sd.t.Helper()
	sd.must(sd.s.Enrollments().SetFirstClassDate(sd.ctx, e.ID, firstClass))
	sd.must(sd.s.Enrollments().UpdateStatus(sd.ctx, e.ID, enrollment.StatusActive))
	e.Status = enrollment.StatusActive
	e.FirstClassDate = &firstClass
}

func (sd Seed) Skills(teacher *user.User, classes ...*catalog.MasterClass) {
	sd.t.Helper()
	ids := make([]string, 0, len(classes))
	for _, mc := range classes {
		ids = append(ids, mc.ID)
	}
	sd.must(sd.s.Availability().ReplaceSkills(sd.ctx, teacher.ID, ids))
}

func (sd Seed) Availability(teacher *user.User, entries ...availability.Availability) {
	sd.t.Helper()
	sd.must(sd.s.Availability().ReplaceAvailability(sd.ctx, teacher.ID, entries))
}

func (sd Seed) Schedule(ce enrollment.ClassEnrollment, teacher *user.User, day int, slot *catalog.TimeSlot) *enrollment.WeeklySchedule {
	sd.t.Helper()
	ws := &enrollment.WeeklySchedule{
		EnrollmentID:      ce.EnrollmentID,
		ClassEnrollmentID: ce.ID,
		TeacherID:         teacher.ID,
		DayOfWeek:         day,
		TimeSlotID:        slot.ID,
	}
	sd.must(sd.s.WeeklySchedules().Create(sd.ctx, ws))
	return ws
}

func (sd Seed) Booking(ce enrollment.ClassEnrollment, teacher *user.User, date time.Time, slot *catalog.TimeSlot) *booking.Booking {
	sd.t.Helper()
	b := &booking.Booking{
		EnrollmentID:      ce.EnrollmentID,
		ClassEnrollmentID: ce.ID,
		Date:              date,
		TimeSlotID:        slot.ID,
		TeacherID:         teacher.ID,
		Status:            booking.StatusBooked,
	}
	sd.must(sd.s.Bookings().Create(sd.ctx, b))

	loaded, err := sd.s.Bookings().GetByID(sd.ctx, b.ID)
	sd.must(err)
	return loaded
}

// Invite creates a not yet activated student holding token.
func (sd Seed) Invite(email, token string) *user.User {
	sd.t.Helper()
	u := &user.User{
		Email:           email,
		PhoneNumber:     "6281200000000",
		Role:            user.RoleStudent,
		ActivationToken: &token,
	}
	sd.must(sd.s.Users().Create(sd.ctx, u))
	return u
}
