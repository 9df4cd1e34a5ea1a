package onboarding

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/availability"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/booking"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/onboarding"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/repository/memorytest"
	availabilitysvc "github.com/cmlabs-hris/fashion-school-backend-go/internal/service/availability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*60*60)

// Saturday 2026-10-17, 10:00 WIB.
var saturday = time.Date(2026, 10, 17, 10, 0, 0, 0, wib)

type fixture struct {
	svc       onboarding.OnboardingService
	store     *memorytest.Store
	seed      memorytest.Seed
	morning   *catalog.TimeSlot
	afternoon *catalog.TimeSlot
	rina      *user.User
	dewi      *user.User
	student   *user.User
	program   *catalog.Program
}

func newFixture(t *testing.T) *fixture {
	store := memorytest.NewStore()
	avail := availabilitysvc.NewAvailabilityService(store, store.Availability(), store.ClassEnrollments(), store.WeeklySchedules(), store.Users())
	svc := NewOnboardingService(store, store.Enrollments(), store.ClassEnrollments(), store.WeeklySchedules(), store.Bookings(), avail,
		func() time.Time { return saturday }, wib)

	seed := store.Seed(t)
	f := &fixture{svc: svc, store: store, seed: seed}
	f.morning = seed.Slot("Pagi", "09:00", "11:00")
	f.afternoon = seed.Slot("Siang", "13:00", "15:00")
	pattern := seed.MasterClass("Pattern")
	sewing := seed.MasterClass("Sewing")

	f.rina = seed.User("Rina", user.RoleTeacher)
	f.dewi = seed.User("Dewi", user.RoleTeacher)
	seed.Skills(f.rina, pattern, sewing)
	seed.Skills(f.dewi, sewing)
	seed.Availability(f.rina,
		availability.Availability{MasterClassID: pattern.ID, DayOfWeek: 0, TimeSlotID: f.morning.ID},
		availability.Availability{MasterClassID: sewing.ID, DayOfWeek: 0, TimeSlotID: f.morning.ID},
		availability.Availability{MasterClassID: sewing.ID, DayOfWeek: 2, TimeSlotID: f.afternoon.ID},
	)
	seed.Availability(f.dewi,
		availability.Availability{MasterClassID: sewing.ID, DayOfWeek: 0, TimeSlotID: f.afternoon.ID},
	)

	f.program = seed.Program("Fashion Design",
		memorytest.ClassSpec{MasterClass: pattern, TotalSessions: 16, SessionsPerWeek: 1},
		memorytest.ClassSpec{MasterClass: sewing, TotalSessions: 48, SessionsPerWeek: 2},
	)
	f.student = seed.User("Siti", user.RoleStudent)
	return f
}

func TestWizardToFirstClass(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e, classes := f.seed.Enroll(f.student, f.program, enrollment.StatusPendingSchedule)

	state, err := f.svc.GetWizard(ctx, f.student.ID)
	require.NoError(t, err)
	assert.False(t, state.Done)
	assert.Equal(t, classes[0].ID, state.Class.ID)
	assert.Equal(t, 3, state.Progress.Required)
	require.Len(t, state.Options, 1)

	state, err = f.svc.PickSlot(ctx, f.student.ID, onboarding.PickSlotRequest{
		ClassEnrollmentID: classes[0].ID, TeacherID: f.rina.ID, DayOfWeek: 0, TimeSlotID: f.morning.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, classes[1].ID, state.Class.ID)
	assert.Equal(t, 2, state.RemainingPatterns)
	require.Len(t, state.Options, 2, "monday morning is already used by the pattern class")

	_, err = f.svc.PickSlot(ctx, f.student.ID, onboarding.PickSlotRequest{
		ClassEnrollmentID: classes[1].ID, TeacherID: f.rina.ID, DayOfWeek: 0, TimeSlotID: f.morning.ID,
	})
	assert.ErrorIs(t, err, onboarding.ErrSlotNotAvailable)

	_, err = f.svc.PickSlot(ctx, f.student.ID, onboarding.PickSlotRequest{
		ClassEnrollmentID: classes[1].ID, TeacherID: f.dewi.ID, DayOfWeek: 0, TimeSlotID: f.afternoon.ID,
	})
	require.NoError(t, err)
	state, err = f.svc.PickSlot(ctx, f.student.ID, onboarding.PickSlotRequest{
		ClassEnrollmentID: classes[1].ID, TeacherID: f.rina.ID, DayOfWeek: 2, TimeSlotID: f.afternoon.ID,
	})
	require.NoError(t, err)
	assert.True(t, state.Done)
	assert.Len(t, state.Schedules, 3)
	assert.Equal(t, state.Progress.Required, state.Progress.Scheduled)

	loaded, err := f.store.Enrollments().GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, enrollment.StatusPendingFirstClass, loaded.Status)

	_, err = f.svc.GetWizard(ctx, f.student.ID)
	assert.ErrorIs(t, err, onboarding.ErrNoPendingEnrollment)

	options, err := f.svc.FirstClassDateOptions(ctx, f.student.ID)
	require.NoError(t, err)
	require.NotEmpty(t, options)
	assert.Equal(t, "2026-10-19", options[0].Date)
	assert.Equal(t, "2026-10-21", options[1].Date)

	_, err = f.svc.SetFirstClassDate(ctx, f.student.ID, onboarding.SetFirstClassDateRequest{Date: "2026-10-12"})
	assert.ErrorIs(t, err, onboarding.ErrDateInPast)
	_, err = f.svc.SetFirstClassDate(ctx, f.student.ID, onboarding.SetFirstClassDateRequest{Date: "2026-10-20"})
	assert.ErrorIs(t, err, onboarding.ErrDateNotInSchedule)

	result, err := f.svc.SetFirstClassDate(ctx, f.student.ID, onboarding.SetFirstClassDateRequest{Date: "2026-10-19"})
	require.NoError(t, err)
	assert.Equal(t, enrollment.StatusActive, result.Enrollment.Status)
	// Five Mondays with two patterns each plus four Wednesdays.
	assert.Equal(t, 14, result.BookingsCreated)

	bookings, err := f.store.Bookings().List(ctx, booking.BookingFilter{EnrollmentID: e.ID})
	require.NoError(t, err)
	require.Len(t, bookings, 14)
	assert.Equal(t, "2026-10-19", bookings[0].Date.Format("2006-01-02"))
	assert.Equal(t, booking.StatusBooked, bookings[0].Status)

	_, err = f.svc.SetFirstClassDate(ctx, f.student.ID, onboarding.SetFirstClassDateRequest{Date: "2026-10-21"})
	assert.ErrorIs(t, err, enrollment.ErrFirstClassDateAlreadySet)
}

func TestExpandBookingsIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e, classes := f.seed.Enroll(f.student, f.program, enrollment.StatusPendingFirstClass)
	f.seed.Schedule(classes[0], f.rina, 0, f.morning)
	f.seed.Schedule(classes[1], f.dewi, 0, f.afternoon)
	f.seed.Schedule(classes[1], f.rina, 2, f.afternoon)
	monday := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	f.seed.Activate(e, monday)

	created, err := f.svc.ExpandBookings(ctx, e.ID, monday)
	require.NoError(t, err)
	assert.Equal(t, 14, created)

	created, err = f.svc.ExpandBookings(ctx, e.ID, monday)
	require.NoError(t, err)
	assert.Zero(t, created)

	// A week later the horizon adds the Monday pair and Wednesday past the old edge.
	created, err = f.svc.RefreshHorizon(ctx, monday.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	bookings, err := f.store.Bookings().List(ctx, booking.BookingFilter{EnrollmentID: e.ID})
	require.NoError(t, err)
	assert.Len(t, bookings, 17)
}

func TestExpandSkipsCompletedClasses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e, classes := f.seed.Enroll(f.student, f.program, enrollment.StatusPendingFirstClass)
	f.seed.Schedule(classes[0], f.rina, 0, f.morning)
	f.seed.Schedule(classes[1], f.rina, 2, f.afternoon)
	monday := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	f.seed.Activate(e, monday)
	require.NoError(t, f.store.ClassEnrollments().Update(ctx, classes[0].ID, 0, enrollment.ClassStatusCompleted))

	created, err := f.svc.ExpandBookings(ctx, e.ID, monday)
	require.NoError(t, err)
	assert.Equal(t, 4, created)
}

func TestGetWizardWithoutOptions(t *testing.T) {
	f := newFixture(t)
	draping := f.seed.MasterClass("Draping")
	program := f.seed.Program("Draping Intensive", memorytest.ClassSpec{MasterClass: draping, TotalSessions: 8, SessionsPerWeek: 1})
	f.seed.Enroll(f.student, program, enrollment.StatusPendingSchedule)

	_, err := f.svc.GetWizard(context.Background(), f.student.ID)
	assert.ErrorIs(t, err, onboarding.ErrNoSlotOptions)
}

func TestRemoveWeeklyScheduleReonboards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e, classes := f.seed.Enroll(f.student, f.program, enrollment.StatusPendingFirstClass)
	f.seed.Schedule(classes[0], f.rina, 0, f.morning)
	mondayAfternoon := f.seed.Schedule(classes[1], f.dewi, 0, f.afternoon)
	f.seed.Schedule(classes[1], f.rina, 2, f.afternoon)
	monday := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	f.seed.Activate(e, monday)
	_, err := f.svc.ExpandBookings(ctx, e.ID, monday)
	require.NoError(t, err)

	removed, err := f.svc.RemoveWeeklySchedule(ctx, mondayAfternoon.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, removed)

	loaded, err := f.store.Enrollments().GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, enrollment.StatusPendingSchedule, loaded.Status)
	bookings, err := f.store.Bookings().List(ctx, booking.BookingFilter{EnrollmentID: e.ID, TimeSlotID: f.afternoon.ID})
	require.NoError(t, err)
	assert.Len(t, bookings, 4, "only the wednesday afternoons remain")

	_, err = f.svc.RemoveWeeklySchedule(ctx, mondayAfternoon.ID)
	assert.ErrorIs(t, err, enrollment.ErrScheduleNotFound)

	state, err := f.svc.GetWizard(ctx, f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, classes[1].ID, state.Class.ID)
	assert.Equal(t, 1, state.RemainingPatterns)
	require.Len(t, state.Options, 1)

	state, err = f.svc.PickSlot(ctx, f.student.ID, onboarding.PickSlotRequest{
		ClassEnrollmentID: classes[1].ID, TeacherID: f.dewi.ID, DayOfWeek: 0, TimeSlotID: f.afternoon.ID,
	})
	require.NoError(t, err)
	assert.True(t, state.Done)

	loaded, err = f.store.Enrollments().GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, enrollment.StatusActive, loaded.Status, "an enrollment with a first class date skips the date picker")
	bookings, err = f.store.Bookings().List(ctx, booking.BookingFilter{EnrollmentID: e.ID})
	require.NoError(t, err)
	assert.Len(t, bookings, 14)
}

func TestRemoveWeeklyScheduleKeepsStartedSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e, classes := f.seed.Enroll(f.student, f.program, enrollment.StatusPendingFirstClass)
	ws := f.seed.Schedule(classes[0], f.rina, 5, f.morning)
	f.seed.Activate(e, time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC))
	today := f.seed.Booking(classes[0], f.rina, time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), f.morning)
	next := f.seed.Booking(classes[0], f.rina, time.Date(2026, 10, 24, 0, 0, 0, 0, time.UTC), f.morning)

	removed, err := f.svc.RemoveWeeklySchedule(ctx, ws.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = f.store.Bookings().GetByID(ctx, today.ID)
	assert.NoError(t, err, "the 09:00 session already started at 10:00")
	_, err = f.store.Bookings().GetByID(ctx, next.ID)
	assert.ErrorIs(t, err, booking.ErrBookingNotFound)
}
