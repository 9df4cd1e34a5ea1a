package reschedule

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/booking"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/override"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/reschedule"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/repository/memorytest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*60*60)

// 2026-10-19 is a Monday.
var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

type change struct {
	req        reschedule.Request
	newBooking booking.Booking
}

type recordingNotifier struct {
	notification.NotificationService
	changes []change
}

func (n *recordingNotifier) NotifyScheduleChange(_ context.Context, req reschedule.Request, nb booking.Booking) {
	n.changes = append(n.changes, change{req: req, newBooking: nb})
}

type fixture struct {
	svc       reschedule.RescheduleService
	store     *memorytest.Store
	notifier  *recordingNotifier
	morning   *catalog.TimeSlot
	afternoon *catalog.TimeSlot
	rina      *user.User
	dewi      *user.User
	admin     *user.User
	student   *user.User
	class     enrollment.ClassEnrollment
	original  *booking.Booking
}

// newFixture books Siti with Rina on Monday 10:00.
func newFixture(t *testing.T) *fixture {
	store := memorytest.NewStore()
	seed := store.Seed(t)
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, wib)
	f := &fixture{store: store, notifier: &recordingNotifier{}}
	f.svc = NewRescheduleService(store, store.Reschedules(), store.Bookings(), store.Overrides(), store.TimeSlots(), store.Users(),
		f.notifier, func() time.Time { return now }, wib)

	f.morning = seed.Slot("Pagi", "10:00", "12:00")
	f.afternoon = seed.Slot("Siang", "14:00", "16:00")
	f.rina = seed.User("Rina", user.RoleTeacher)
	f.dewi = seed.User("Dewi", user.RoleTeacher)
	f.admin = seed.User("Admin", user.RoleAdmin)
	f.student = seed.User("Siti", user.RoleStudent)

	program := seed.Program("Fashion Design", memorytest.ClassSpec{MasterClass: seed.MasterClass("Sewing"), TotalSessions: 16, SessionsPerWeek: 1})
	e, classes := seed.Enroll(f.student, program, enrollment.StatusPendingFirstClass)
	seed.Activate(e, monday)
	f.class = classes[0]
	f.original = seed.Booking(f.class, f.rina, monday, f.morning)
	return f
}

func (f *fixture) moveToWednesday() reschedule.CreateRescheduleRequest {
	return reschedule.CreateRescheduleRequest{
		BookingID:     f.original.ID,
		NewDate:       "2026-10-21",
		NewTimeSlotID: f.afternoon.ID,
		NewTeacherID:  f.dewi.ID,
		Reason:        "bentrok ujian",
	}
}

func TestRescheduleMondayToWednesday(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.svc.Create(ctx, reschedule.Actor{ID: f.student.ID, Role: user.RoleStudent}, f.moveToWednesday())
	require.NoError(t, err)
	assert.Equal(t, reschedule.StatusPending, req.Status)
	assert.Equal(t, monday, req.OriginalDate)
	assert.Equal(t, f.rina.ID, req.OriginalTeacherID)
	assert.Equal(t, "Dewi", req.NewTeacherName)

	approved, err := f.svc.Approve(ctx, f.admin.ID, req.ID)
	require.NoError(t, err)
	assert.Equal(t, reschedule.StatusApproved, approved.Status)
	require.NotNil(t, approved.NewBookingID)
	assert.Equal(t, f.admin.ID, *approved.ApprovedBy)

	original, err := f.store.Bookings().GetByID(ctx, f.original.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, original.Status)

	moved, err := f.store.Bookings().GetByID(ctx, *approved.NewBookingID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusBooked, moved.Status)
	assert.Equal(t, "2026-10-21", moved.Date.Format("2006-01-02"))
	assert.Equal(t, f.afternoon.ID, moved.TimeSlotID)
	assert.Equal(t, f.dewi.ID, moved.TeacherID)
	assert.Equal(t, f.class.ID, moved.ClassEnrollmentID)

	require.Len(t, f.notifier.changes, 1)
	assert.Equal(t, moved.ID, f.notifier.changes[0].newBooking.ID)

	_, err = f.svc.Approve(ctx, f.admin.ID, req.ID)
	assert.ErrorIs(t, err, reschedule.ErrRequestAlreadyProcessed)
}

func TestRescheduleAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := f.store.Seed(t).User("Ayu", user.RoleStudent)

	_, err := f.svc.Create(ctx, reschedule.Actor{ID: other.ID, Role: user.RoleStudent}, f.moveToWednesday())
	assert.ErrorIs(t, err, reschedule.ErrNotAllowed)

	_, err = f.svc.Create(ctx, reschedule.Actor{ID: f.dewi.ID, Role: user.RoleTeacher}, f.moveToWednesday())
	assert.ErrorIs(t, err, reschedule.ErrNotAllowed)

	// Dewi covers Monday for Rina, so the session is hers to move.
	require.NoError(t, f.store.Overrides().Upsert(ctx, &override.Override{
		Date: monday, TimeSlotID: f.morning.ID, OriginalTeacherID: f.rina.ID, SubstituteTeacherID: f.dewi.ID, CreatedBy: f.admin.ID,
	}))
	_, err = f.svc.Create(ctx, reschedule.Actor{ID: f.rina.ID, Role: user.RoleTeacher}, f.moveToWednesday())
	assert.ErrorIs(t, err, reschedule.ErrNotAllowed)
	_, err = f.svc.Create(ctx, reschedule.Actor{ID: f.dewi.ID, Role: user.RoleTeacher}, f.moveToWednesday())
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, reschedule.Actor{ID: f.admin.ID, Role: user.RoleAdmin}, f.moveToWednesday())
	assert.ErrorIs(t, err, reschedule.ErrRequestPending)
}

func TestRescheduleCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := reschedule.Actor{ID: f.admin.ID, Role: user.RoleAdmin}

	req := f.moveToWednesday()
	req.NewDate = "2026-10-16"
	_, err := f.svc.Create(ctx, admin, req)
	assert.ErrorIs(t, err, reschedule.ErrNewDateInPast)

	req = f.moveToWednesday()
	req.NewTeacherID = f.student.ID
	_, err = f.svc.Create(ctx, admin, req)
	assert.ErrorIs(t, err, user.ErrNotATeacher)

	_, err = f.svc.Create(ctx, admin, reschedule.CreateRescheduleRequest{
		BookingID: f.original.ID, NewDate: "2026-10-19", NewTimeSlotID: f.morning.ID,
	})
	assert.ErrorIs(t, err, reschedule.ErrSameSchedule)

	_, err = f.svc.Create(ctx, admin, reschedule.CreateRescheduleRequest{
		BookingID: f.original.ID, NewDate: "2026-10-19", NewTimeSlotID: f.morning.ID, NewTeacherID: f.dewi.ID,
	})
	assert.ErrorIs(t, err, reschedule.ErrTeacherOnlyChange)
	list, err := f.svc.List(ctx, reschedule.Filter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, f.store.Bookings().Transition(ctx, f.original.ID, booking.StatusIzin, nil))
	_, err = f.svc.Create(ctx, admin, f.moveToWednesday())
	assert.ErrorIs(t, err, reschedule.ErrBookingNotReschedulable)
}

func TestRescheduleSameDayOtherSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.svc.Create(ctx, reschedule.Actor{ID: f.admin.ID, Role: user.RoleAdmin}, reschedule.CreateRescheduleRequest{
		BookingID: f.original.ID, NewDate: "2026-10-19", NewTimeSlotID: f.afternoon.ID, NewTeacherID: f.dewi.ID,
	})
	require.NoError(t, err)

	approved, err := f.svc.Approve(ctx, f.admin.ID, req.ID)
	require.NoError(t, err)
	moved, err := f.store.Bookings().GetByID(ctx, *approved.NewBookingID)
	require.NoError(t, err)
	assert.Equal(t, f.afternoon.ID, moved.TimeSlotID)
	assert.Equal(t, f.dewi.ID, moved.TeacherID)
}

func TestRescheduleApproveRollsBackOnDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req, err := f.svc.Create(ctx, reschedule.Actor{ID: f.admin.ID, Role: user.RoleAdmin}, f.moveToWednesday())
	require.NoError(t, err)

	// The enrollment already holds Wednesday afternoon.
	f.store.Seed(t).Booking(f.class, f.rina, monday.AddDate(0, 0, 2), f.afternoon)

	_, err = f.svc.Approve(ctx, f.admin.ID, req.ID)
	assert.ErrorIs(t, err, booking.ErrDuplicateBooking)

	original, err := f.store.Bookings().GetByID(ctx, f.original.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusBooked, original.Status)
	assert.Empty(t, f.notifier.changes)

	rejected, err := f.svc.Reject(ctx, f.admin.ID, req.ID, "slot sudah terisi")
	require.NoError(t, err)
	assert.Equal(t, reschedule.StatusRejected, rejected.Status)

	status := reschedule.StatusRejected
	list, err := f.svc.List(ctx, reschedule.Filter{Status: &status})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRescheduleBackReinstatesCancelledSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := reschedule.Actor{ID: f.admin.ID, Role: user.RoleAdmin}

	req, err := f.svc.Create(ctx, admin, f.moveToWednesday())
	require.NoError(t, err)
	away, err := f.svc.Approve(ctx, f.admin.ID, req.ID)
	require.NoError(t, err)

	req, err = f.svc.Create(ctx, admin, reschedule.CreateRescheduleRequest{
		BookingID: *away.NewBookingID, NewDate: "2026-10-19", NewTimeSlotID: f.morning.ID, NewTeacherID: f.dewi.ID,
	})
	require.NoError(t, err)
	back, err := f.svc.Approve(ctx, f.admin.ID, req.ID)
	require.NoError(t, err)
	require.NotNil(t, back.NewBookingID)
	assert.Equal(t, f.original.ID, *back.NewBookingID)

	restored, err := f.store.Bookings().GetByID(ctx, f.original.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusBooked, restored.Status)
	assert.Equal(t, f.dewi.ID, restored.TeacherID)

	wednesday, err := f.store.Bookings().GetByID(ctx, *away.NewBookingID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, wednesday.Status)
}
