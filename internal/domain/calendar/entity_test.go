package calendar

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/booking"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/override"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestProject(t *testing.T) {
	// 2026-10-19 is a Monday.
	first := date(2026, 10, 19)
	patterns := []enrollment.WeeklySchedule{{
		EnrollmentID:      "enr-1",
		ClassEnrollmentID: "ce-1",
		TeacherID:         "t-ani",
		DayOfWeek:         0,
		TimeSlotID:        "pagi",
		StartTime:         "09:00",
		EndTime:           "11:00",
		StudentID:         "s-1",
		StudentName:       "Sari",
		ClassName:         "Pattern Making",
		FirstClassDate:    &first,
	}}
	bookings := []booking.Booking{{
		ID:                "b-1",
		EnrollmentID:      "enr-1",
		ClassEnrollmentID: "ce-1",
		Date:              first,
		TimeSlotID:        "pagi",
		TeacherID:         "t-ani",
		Status:            booking.StatusBooked,
		StudentName:       "Sari",
		SlotStart:         "09:00",
	}}

	t.Run("booked dates are not projected twice", func(t *testing.T) {
		occ := Project(patterns, bookings, date(2026, 10, 12), date(2026, 11, 8), nil)

		require.Len(t, occ, 3)
		assert.Equal(t, KindBooking, occ[0].Kind)
		assert.Equal(t, first, occ[0].Date)
		assert.Equal(t, KindProjected, occ[1].Kind)
		assert.Equal(t, date(2026, 10, 26), occ[1].Date)
		assert.Equal(t, "Senin", occ[1].DayName)
		assert.Equal(t, date(2026, 11, 2), occ[2].Date)
	})

	t.Run("patterns without a first class date are not projected", func(t *testing.T) {
		p := patterns[0]
		p.FirstClassDate = nil
		occ := Project([]enrollment.WeeklySchedule{p}, nil, date(2026, 10, 19), date(2026, 11, 8), nil)
		assert.Empty(t, occ)
	})

	t.Run("override moves the session to the substitute", func(t *testing.T) {
		idx := override.NewIndex([]override.Override{
			{Date: first, TimeSlotID: "pagi", OriginalTeacherID: "t-ani", SubstituteTeacherID: "t-budi"},
			{Date: date(2026, 10, 26), TimeSlotID: "pagi", OriginalTeacherID: "t-ani", SubstituteTeacherID: "t-budi"},
		})
		occ := Project(patterns, bookings, date(2026, 10, 19), date(2026, 11, 2), idx)

		ani := ForTeacher(occ, "t-ani")
		budi := ForTeacher(occ, "t-budi")

		require.Len(t, ani, 1)
		assert.Equal(t, date(2026, 11, 2), ani[0].Date)

		require.Len(t, budi, 2)
		assert.True(t, budi[0].Substituted)
		assert.Equal(t, "t-ani", budi[0].BookedTeacherID)
		assert.Equal(t, KindBooking, budi[0].Kind)
		assert.Equal(t, KindProjected, budi[1].Kind)
	})
}

func TestRangeQuery_Parse(t *testing.T) {
	from, to, err := RangeQuery{From: "2026-10-01", To: "2026-10-31"}.Parse()
	require.NoError(t, err)
	assert.Equal(t, date(2026, 10, 1), from)
	assert.Equal(t, date(2026, 10, 31), to)

	_, _, err = RangeQuery{From: "2026-10-31", To: "2026-10-01"}.Parse()
	assert.Error(t, err)

	_, _, err = RangeQuery{From: "2026-01-01", To: "2026-12-31"}.Parse()
	assert.Error(t, err)

	_, _, err = RangeQuery{From: "bad", To: "2026-10-01"}.Parse()
	assert.Error(t, err)
}
