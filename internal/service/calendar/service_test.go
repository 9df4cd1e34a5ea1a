package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/booking"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/override"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/repository/memorytest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*60*60)

// 2026-10-19 is a Monday.
var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

type fixture struct {
	svc      calendar.CalendarService
	store    *memorytest.Store
	slot     *catalog.TimeSlot
	rina     *user.User
	dewi     *user.User
	student  *user.User
	bookings []*booking.Booking
}

// newFixture gives Siti a Monday morning class with Rina, starting
// 2026-10-19, with bookings materialized for the first two Mondays only.
func newFixture(t *testing.T) *fixture {
	store := memorytest.NewStore()
	seed := store.Seed(t)
	now := time.Date(2026, 10, 26, 8, 50, 0, 0, wib)
	f := &fixture{
		svc: NewCalendarService(store.Bookings(), store.WeeklySchedules(), store.Enrollments(), store.ClassEnrollments(),
			store.Overrides(), store.TimeSlots(), store.Users(), func() time.Time { return now }, wib),
		store: store,
	}

	f.slot = seed.Slot("Pagi", "09:00", "11:00")
	f.rina = seed.User("Rina", user.RoleTeacher)
	f.dewi = seed.User("Dewi", user.RoleTeacher)
	f.student = seed.User("Siti", user.RoleStudent)

	program := seed.Program("Fashion Design", memorytest.ClassSpec{MasterClass: seed.MasterClass("Sewing"), TotalSessions: 16, SessionsPerWeek: 1})
	e, classes := seed.Enroll(f.student, program, enrollment.StatusPendingFirstClass)
	seed.Schedule(classes[0], f.rina, 0, f.slot)
	seed.Activate(e, monday)
	f.bookings = []*booking.Booking{
		seed.Booking(classes[0], f.rina, monday, f.slot),
		seed.Booking(classes[0], f.rina, monday.AddDate(0, 0, 7), f.slot),
	}
	return f
}

func (f *fixture) substitute(t *testing.T, date time.Time) {
	_, err := f.svc.CreateOverride(context.Background(), "admin", override.CreateOverrideRequest{
		Date: date.Format("2006-01-02"), TimeSlotID: f.slot.ID, OriginalTeacherID: f.rina.ID, SubstituteTeacherID: f.dewi.ID,
	})
	require.NoError(t, err)
}

func dates(occurrences []calendar.Occurrence) []string {
	out := make([]string, 0, len(occurrences))
	for _, o := range occurrences {
		out = append(out, o.Date.Format("2006-01-02"))
	}
	return out
}

func TestTeacherCalendarProjectsAndRedirects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	from, to := monday, monday.AddDate(0, 0, 21)

	got, err := f.svc.TeacherCalendar(ctx, f.rina.ID, from, to)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-10-19", "2026-10-26", "2026-11-02", "2026-11-09"}, dates(got))
	assert.Equal(t, calendar.KindBooking, got[0].Kind)
	assert.Equal(t, calendar.KindProjected, got[2].Kind)
	assert.Nil(t, got[2].BookingID)
	assert.Equal(t, "Rina", got[0].TeacherName)

	f.substitute(t, monday.AddDate(0, 0, 7))
	f.substitute(t, monday.AddDate(0, 0, 14))

	got, err = f.svc.TeacherCalendar(ctx, f.rina.ID, from, to)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-10-19", "2026-11-09"}, dates(got))

	got, err = f.svc.TeacherCalendar(ctx, f.dewi.ID, from, to)
	require.NoError(t, err)
	require.Equal(t, []string{"2026-10-26", "2026-11-02"}, dates(got))
	assert.True(t, got[0].Substituted)
	assert.Equal(t, f.rina.ID, got[0].BookedTeacherID)
	assert.Equal(t, "Dewi", got[0].TeacherName)
	assert.Equal(t, calendar.KindProjected, got[1].Kind)

	// The stored booking still names the original teacher.
	stored, err := f.store.Bookings().GetByID(ctx, f.bookings[1].ID)
	require.NoError(t, err)
	assert.Equal(t, f.rina.ID, stored.TeacherID)

	effective, err := f.svc.EffectiveTeacherFor(ctx, f.bookings[1].ID)
	require.NoError(t, err)
	assert.Equal(t, f.dewi.ID, effective)
	effective, err = f.svc.EffectiveTeacherFor(ctx, f.bookings[0].ID)
	require.NoError(t, err)
	assert.Equal(t, f.rina.ID, effective)
}

func TestStudentCalendar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.substitute(t, monday.AddDate(0, 0, 7))

	got, err := f.svc.StudentCalendar(ctx, f.student.ID, monday.AddDate(0, 0, 1), monday.AddDate(0, 0, 14))
	require.NoError(t, err)
	require.Equal(t, []string{"2026-10-26", "2026-11-02"}, dates(got))
	assert.Equal(t, "Dewi", got[0].TeacherName)
	assert.Equal(t, "Rina", got[1].TeacherName)
	assert.Equal(t, "Senin", got[1].DayName)

	other, err := f.svc.StudentCalendar(ctx, f.rina.ID, monday, monday.AddDate(0, 0, 14))
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestAttendanceSheet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sessionDate := monday.AddDate(0, 0, 7)
	f.substitute(t, sessionDate)

	sheet, err := f.svc.AttendanceSheet(ctx, f.dewi.ID, sessionDate, f.slot.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.WindowOpen, sheet.Window)
	require.Len(t, sheet.Bookings, 1)
	assert.Equal(t, f.bookings[1].ID, sheet.Bookings[0].ID)
	require.Len(t, sheet.Upcoming, 1)

	sheet, err = f.svc.AttendanceSheet(ctx, f.rina.ID, sessionDate, f.slot.ID)
	require.NoError(t, err)
	assert.Empty(t, sheet.Bookings)

	_, err = f.svc.AttendanceSheet(ctx, f.rina.ID, sessionDate, "missing")
	assert.ErrorIs(t, err, catalog.ErrTimeSlotNotFound)
}

func TestCreateOverride(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := override.CreateOverrideRequest{
		Date: "2026-10-26", TimeSlotID: f.slot.ID, OriginalTeacherID: f.rina.ID, SubstituteTeacherID: f.rina.ID,
	}

	_, err := f.svc.CreateOverride(ctx, "admin", req)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	req.SubstituteTeacherID = f.student.ID
	_, err = f.svc.CreateOverride(ctx, "admin", req)
	assert.ErrorIs(t, err, user.ErrNotATeacher)

	req.SubstituteTeacherID = f.dewi.ID
	first, err := f.svc.CreateOverride(ctx, "admin", req)
	require.NoError(t, err)
	assert.Equal(t, "Dewi", first.SubstituteTeacherName)

	ani := f.store.Seed(t).User("Ani", user.RoleTeacher)
	req.SubstituteTeacherID = ani.ID
	second, err := f.svc.CreateOverride(ctx, "admin", req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	list, err := f.svc.ListOverrides(ctx, monday, monday.AddDate(0, 0, 14))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, ani.ID, list[0].SubstituteTeacherID)

	require.NoError(t, f.svc.DeleteOverride(ctx, second.ID))
	assert.ErrorIs(t, f.svc.DeleteOverride(ctx, second.ID), override.ErrOverrideNotFound)
}

func TestMasterSchedule(t *testing.T) {
	f := newFixture(t)
	seed := f.store.Seed(t)
	program := seed.Program("Draping", memorytest.ClassSpec{MasterClass: seed.MasterClass("Draping"), TotalSessions: 8, SessionsPerWeek: 1})
	_, classes := seed.Enroll(seed.User("Ayu", user.RoleStudent), program, enrollment.StatusPendingSchedule)
	seed.Schedule(classes[0], f.dewi, 2, f.slot)

	grid, err := f.svc.MasterSchedule(context.Background())
	require.NoError(t, err)
	require.Len(t, grid, 7)
	require.Len(t, grid[0].Slots, 1)
	require.Len(t, grid[0].Slots[0].Entries, 1)
	assert.Equal(t, "Siti", grid[0].Slots[0].Entries[0].StudentName)
	assert.Equal(t, "Rina", grid[0].Slots[0].Entries[0].TeacherName)
	assert.Empty(t, grid[2].Slots[0].Entries, "patterns of enrollments still onboarding stay off the grid")
}
