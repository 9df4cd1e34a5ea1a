package availability

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/availability"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/repository/memorytest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (availability.AvailabilityService, *memorytest.Store) {
	store := memorytest.NewStore()
	return NewAvailabilityService(store, store.Availability(), store.ClassEnrollments(), store.WeeklySchedules(), store.Users()), store
}

func TestListOpenSlotsExcludesUsedDaySlots(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	seed := store.Seed(t)

	morning := seed.Slot("Pagi", "09:00", "11:00")
	afternoon := seed.Slot("Siang", "13:00", "15:00")
	pattern := seed.MasterClass("Pattern")
	sewing := seed.MasterClass("Sewing")

	rina := seed.User("Rina", user.RoleTeacher)
	dewi := seed.User("Dewi", user.RoleTeacher)
	seed.Skills(rina, pattern, sewing)
	seed.Skills(dewi, sewing)
	seed.Availability(rina,
		availability.Availability{MasterClassID: pattern.ID, DayOfWeek: 0, TimeSlotID: morning.ID},
		availability.Availability{MasterClassID: sewing.ID, DayOfWeek: 0, TimeSlotID: morning.ID},
		availability.Availability{MasterClassID: sewing.ID, DayOfWeek: 2, TimeSlotID: afternoon.ID},
	)
	seed.Availability(dewi,
		availability.Availability{MasterClassID: sewing.ID, DayOfWeek: 0, TimeSlotID: afternoon.ID},
		availability.Availability{MasterClassID: sewing.ID, DayOfWeek: 1, TimeSlotID: morning.ID},
	)

	program := seed.Program("Fashion Design",
		memorytest.ClassSpec{MasterClass: pattern, TotalSessions: 16, SessionsPerWeek: 1},
		memorytest.ClassSpec{MasterClass: sewing, TotalSessions: 48, SessionsPerWeek: 2},
	)
	e, classes := seed.Enroll(seed.User("Siti", user.RoleStudent), program, enrollment.StatusPendingSchedule)

	options, err := svc.ListOpenSlots(ctx, e.ID, classes[1].ID)
	require.NoError(t, err)
	require.Len(t, options, 4)
	assert.Equal(t, "Senin", options[0].DayName)
	assert.Equal(t, "Rina", options[0].TeacherName)
	assert.Equal(t, "09:00 - 11:00", options[0].TimeRange)

	// Monday morning is taken by the pattern class of the same enrollment
	seed.Schedule(classes[0], rina, 0, morning)

	options, err = svc.ListOpenSlots(ctx, e.ID, classes[1].ID)
	require.NoError(t, err)
	require.Len(t, options, 3)
	for _, o := range options {
		assert.False(t, o.DayOfWeek == 0 && o.TimeSlotID == morning.ID)
	}
	assert.True(t, options[0].Matches(dewi.ID, 0, afternoon.ID))

	_, err = svc.ListOpenSlots(ctx, "other-enrollment", classes[1].ID)
	assert.ErrorIs(t, err, enrollment.ErrClassEnrollmentNotFound)
}

func TestListOpenSlotsEmptyIsNotAnError(t *testing.T) {
	svc, store := newTestService()
	seed := store.Seed(t)
	program := seed.Program("Fashion Design", memorytest.ClassSpec{MasterClass: seed.MasterClass("Draping"), TotalSessions: 8, SessionsPerWeek: 1})
	e, classes := seed.Enroll(seed.User("Siti", user.RoleStudent), program, enrollment.StatusPendingSchedule)

	options, err := svc.ListOpenSlots(context.Background(), e.ID, classes[0].ID)
	require.NoError(t, err)
	assert.Empty(t, options)
}

func TestSetAvailabilityRequiresSkill(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	seed := store.Seed(t)
	slot := seed.Slot("Pagi", "09:00", "11:00")
	pattern := seed.MasterClass("Pattern")
	sewing := seed.MasterClass("Sewing")
	teacher := seed.User("Rina", user.RoleTeacher)

	require.NoError(t, svc.SetSkills(ctx, availability.SetSkillsRequest{TeacherID: teacher.ID, MasterClassIDs: []string{pattern.ID}}))

	err := svc.SetAvailability(ctx, availability.SetAvailabilityRequest{
		TeacherID: teacher.ID,
		Entries:   []availability.AvailabilityInput{{MasterClassID: sewing.ID, DayOfWeek: 1, TimeSlotID: slot.ID}},
	})
	assert.ErrorIs(t, err, availability.ErrMissingSkill)

	require.NoError(t, svc.SetAvailability(ctx, availability.SetAvailabilityRequest{
		TeacherID: teacher.ID,
		Entries: []availability.AvailabilityInput{
			{MasterClassID: pattern.ID, DayOfWeek: 3, TimeSlotID: slot.ID},
			{MasterClassID: pattern.ID, DayOfWeek: 1, TimeSlotID: slot.ID},
		},
	}))

	got, err := svc.GetTeacherAvailability(ctx, teacher.ID)
	require.NoError(t, err)
	require.Len(t, got.Skills, 1)
	assert.Equal(t, "Pattern", got.Skills[0].Name)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, 1, got.Entries[0].DayOfWeek)
	assert.Equal(t, "Pagi", got.Entries[0].TimeSlotName)

	student := seed.User("Siti", user.RoleStudent)
	err = svc.SetSkills(ctx, availability.SetSkillsRequest{TeacherID: student.ID, MasterClassIDs: []string{pattern.ID}})
	assert.ErrorIs(t, err, user.ErrNotATeacher)
}
