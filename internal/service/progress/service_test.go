package progress

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/booking"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/progress"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/repository/memorytest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-10-19 is a Monday.
var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

type fixture struct {
	svc        progress.ProgressService
	store      *memorytest.Store
	rina       *user.User
	siti       *user.User
	enrollment *enrollment.Enrollment
	classes    []enrollment.ClassEnrollment
	slot       *catalog.TimeSlot
}

// newFixture enrolls Siti in Pattern Making (4 sessions, syllabus 1+3) and
// Sewing (8 sessions, no syllabus), both taught by Rina.
func newFixture(t *testing.T) *fixture {
	store := memorytest.NewStore()
	seed := store.Seed(t)
	ctx := context.Background()
	f := &fixture{
		svc:   NewProgressService(store, store.Enrollments(), store.ClassEnrollments(), store.Bookings(), store.Attendances(), store.Syllabi()),
		store: store,
	}

	f.slot = seed.Slot("Pagi", "09:00", "11:00")
	f.rina = seed.User("Rina", user.RoleTeacher)
	f.siti = seed.User("Siti", user.RoleStudent)
	program := seed.Program("Fashion Design",
		memorytest.ClassSpec{MasterClass: seed.MasterClass("Pattern Making"), TotalSessions: 4, SessionsPerWeek: 1, MaxIzin: 2},
		memorytest.ClassSpec{MasterClass: seed.MasterClass("Sewing"), TotalSessions: 8, SessionsPerWeek: 1, MaxIzin: 1},
	)
	require.NoError(t, store.Syllabi().Create(ctx, &catalog.SyllabusItem{ProgramClassID: program.Classes[0].ID, Topic: "Pengenalan Alat", Sessions: 1}))
	require.NoError(t, store.Syllabi().Create(ctx, &catalog.SyllabusItem{ProgramClassID: program.Classes[0].ID, Topic: "Pola Dasar", Sessions: 3}))

	f.enrollment, f.classes = seed.Enroll(f.siti, program, enrollment.StatusPendingFirstClass)
	seed.Activate(f.enrollment, monday)
	return f
}

func (f *fixture) attend(t *testing.T, ce enrollment.ClassEnrollment, date time.Time, status booking.AttendanceStatus) {
	ctx := context.Background()
	b := f.store.Seed(t).Booking(ce, f.rina, date, f.slot)
	require.NoError(t, f.store.Bookings().Transition(ctx, b.ID, booking.StatusCompleted, nil))
	require.NoError(t, f.store.Attendances().Create(ctx, &booking.Attendance{BookingID: b.ID, TeacherID: f.rina.ID, Date: date, Status: status}))
	if status == booking.AttendanceHadir {
		_, err := f.store.ClassEnrollments().ConsumeSession(ctx, ce.ID)
		require.NoError(t, err)
	}
}

func TestStudentProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pattern := f.classes[0]

	f.attend(t, pattern, monday, booking.AttendanceHadir)
	f.attend(t, pattern, monday.AddDate(0, 0, 7), booking.AttendanceHadir)
	f.attend(t, pattern, monday.AddDate(0, 0, 14), booking.AttendanceAlpha)
	izin := f.store.Seed(t).Booking(pattern, f.rina, monday.AddDate(0, 0, 21), f.slot)
	reason := "sakit"
	require.NoError(t, f.store.Bookings().Transition(ctx, izin.ID, booking.StatusIzin, &reason))
	_, err := f.store.ClassEnrollments().ConsumeIzin(ctx, pattern.ID)
	require.NoError(t, err)

	p, err := f.svc.StudentProgress(ctx, f.enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, "Siti", p.StudentName)
	assert.Equal(t, "Fashion Design", p.ProgramName)
	require.NotNil(t, p.FirstClassDate)
	assert.Equal(t, "2026-10-19", *p.FirstClassDate)
	assert.Equal(t, 12, p.TotalSessions)
	assert.Equal(t, 2, p.Completed)
	assert.Equal(t, 10, p.Remaining)
	assert.Equal(t, 16, p.Percentage)

	require.Len(t, p.Classes, 2)
	pc := p.Classes[0]
	assert.Equal(t, 50, pc.Percentage)
	assert.Equal(t, booking.Tally{Hadir: 2, Izin: 1, Alpha: 1}, pc.Tally)
	assert.Equal(t, 1, pc.IzinUsed)
	assert.Equal(t, 1, pc.IzinRemaining)
	assert.Equal(t, "Pola Dasar - 2", pc.CurrentTopic)
	require.Len(t, pc.Recent, 3)
	assert.Equal(t, booking.AttendanceAlpha, pc.Recent[0].Status)

	sewing := p.Classes[1]
	assert.Equal(t, "", sewing.CurrentTopic)
	assert.NotNil(t, sewing.Recent)

	_, err = f.svc.StudentProgress(ctx, "missing")
	assert.ErrorIs(t, err, enrollment.ErrEnrollmentNotFound)
}

func TestMyProgressAndTeacherStudents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.attend(t, f.classes[1], monday, booking.AttendanceHadir)

	mine, err := f.svc.MyProgress(ctx, f.siti.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 1, mine[0].Completed)

	students, err := f.svc.TeacherStudents(ctx, f.rina.ID)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Siti", students[0].StudentName)
	assert.Equal(t, f.enrollment.ID, students[0].Progress.EnrollmentID)

	other := f.store.Seed(t).User("Dewi", user.RoleTeacher)
	students, err = f.svc.TeacherStudents(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, students)
	assert.NotNil(t, students)
}

func TestUpdateClassEnrollment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	intPtr := func(v int) *int { return &v }
	strPtr := func(v string) *string { return &v }

	_, err := f.svc.UpdateClassEnrollment(ctx, enrollment.UpdateClassEnrollmentRequest{ID: f.classes[0].ID, SessionsRemaining: intPtr(5)})
	assert.ErrorIs(t, err, enrollment.ErrInvalidSessionsRemaining)

	ce, err := f.svc.UpdateClassEnrollment(ctx, enrollment.UpdateClassEnrollmentRequest{ID: f.classes[0].ID, SessionsRemaining: intPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, 2, ce.SessionsRemaining)
	assert.Equal(t, enrollment.ClassStatusActive, ce.Status)

	for _, c := range f.classes {
		_, err := f.svc.UpdateClassEnrollment(ctx, enrollment.UpdateClassEnrollmentRequest{
			ID: c.ID, SessionsRemaining: intPtr(0), Status: strPtr(string(enrollment.ClassStatusCompleted)),
		})
		require.NoError(t, err)
	}
	e, err := f.store.Enrollments().GetByID(ctx, f.enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, enrollment.StatusCompleted, e.Status)

	_, err = f.svc.UpdateClassEnrollment(ctx, enrollment.UpdateClassEnrollmentRequest{ID: "missing", SessionsRemaining: intPtr(1)})
	assert.ErrorIs(t, err, enrollment.ErrClassEnrollmentNotFound)
}

func TestUpdateEnrollmentStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, err := f.svc.UpdateEnrollmentStatus(ctx, enrollment.UpdateEnrollmentStatusRequest{ID: f.enrollment.ID, Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, enrollment.StatusCompleted, e.Status)

	_, err = f.svc.UpdateEnrollmentStatus(ctx, enrollment.UpdateEnrollmentStatusRequest{ID: f.enrollment.ID, Status: "paused"})
	assert.Error(t, err)

	_, err = f.svc.UpdateEnrollmentStatus(ctx, enrollment.UpdateEnrollmentStatusRequest{ID: "missing", Status: "active"})
	assert.ErrorIs(t, err, enrollment.ErrEnrollmentNotFound)

	list, err := f.svc.ListEnrollments(ctx, enrollment.EnrollmentFilter{StudentID: "nobody"})
	require.NoError(t, err)
	assert.NotNil(t, list)
}
