package onboarding

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanOccurrences(t *testing.T) {
	// 2026-10-19 is a Monday.
	from := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	patterns := []enrollment.WeeklySchedule{
		{EnrollmentID: "enr-1", ClassEnrollmentID: "ce-1", TeacherID: "t-ani", DayOfWeek: 0, TimeSlotID: "pagi"},
		{EnrollmentID: "enr-1", ClassEnrollmentID: "ce-2", TeacherID: "t-budi", DayOfWeek: 2, TimeSlotID: "siang"},
	}

	planned := PlanOccurrences(patterns, from, ExpansionWeeks)

	var mondays, wednesdays []time.Time
	for _, p := range planned {
		switch p.ClassEnrollmentID {
		case "ce-1":
			mondays = append(mondays, p.Date)
		case "ce-2":
			wednesdays = append(wednesdays, p.Date)
		}
	}

	// The range is inclusive of from + 4 weeks, so Monday appears five times.
	require.Len(t, mondays, 5)
	assert.Equal(t, from, mondays[0])
	assert.Equal(t, from.AddDate(0, 0, 28), mondays[4])

	require.Len(t, wednesdays, 4)
	assert.Equal(t, time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC), wednesdays[0])
	assert.Equal(t, "t-budi", planned[1].TeacherID)
}

func TestPlanOccurrences_Empty(t *testing.T) {
	assert.Empty(t, PlanOccurrences(nil, time.Now(), ExpansionWeeks))
}

func TestNextClassToSchedule(t *testing.T) {
	classes := []enrollment.ClassEnrollment{
		{ID: "ce-draping", SessionsPerWeek: 1, DisplayOrder: 2},
		{ID: "ce-batch", SessionsPerWeek: 1, IsBatch: true, DisplayOrder: 0},
		{ID: "ce-pattern", SessionsPerWeek: 2, DisplayOrder: 1},
	}

	next, n := NextClassToSchedule(classes, nil)
	require.NotNil(t, next)
	assert.Equal(t, "ce-pattern", next.ID)
	assert.Equal(t, 2, n)

	schedules := []enrollment.WeeklySchedule{
		{ClassEnrollmentID: "ce-pattern", DayOfWeek: 0},
		{ClassEnrollmentID: "ce-pattern", DayOfWeek: 2},
	}
	next, n = NextClassToSchedule(classes, schedules)
	require.NotNil(t, next)
	assert.Equal(t, "ce-draping", next.ID)
	assert.Equal(t, 1, n)

	schedules = append(schedules, enrollment.WeeklySchedule{ClassEnrollmentID: "ce-draping", DayOfWeek: 4})
	next, n = NextClassToSchedule(classes, schedules)
	assert.Nil(t, next)
	assert.Zero(t, n)
}

func TestFirstClassDateOptions(t *testing.T) {
	// Saturday 2026-10-17.
	today := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	schedules := []enrollment.WeeklySchedule{{DayOfWeek: 0}, {DayOfWeek: 5}}

	options := FirstClassDateOptions(schedules, today)

	require.Len(t, options, 8)
	assert.Equal(t, "2026-10-17", options[0].Date)
	assert.Equal(t, "Sabtu", options[0].DayName)
	assert.Equal(t, "Sabtu, 17 Oktober 2026", options[0].Label)
	assert.Equal(t, "2026-10-19", options[1].Date)
	assert.Equal(t, "Senin", options[1].DayName)
	assert.Equal(t, "2026-11-09", options[7].Date)
}

func TestScheduledOn(t *testing.T) {
	schedules := []enrollment.WeeklySchedule{{DayOfWeek: 2}}
	assert.True(t, ScheduledOn(schedules, time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC)))
	assert.False(t, ScheduledOn(schedules, time.Date(2026, 10, 22, 0, 0, 0, 0, time.UTC)))
}
