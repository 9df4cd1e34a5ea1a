package availability

import (
	"testing"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterOpen(t *testing.T) {
	pagi := catalog.TimeSlot{ID: "slot-pagi", Name: "Pagi", StartTime: "09:00", EndTime: "11:00"}
	siang := catalog.TimeSlot{ID: "slot-siang", Name: "Siang", StartTime: "13:00", EndTime: "15:00", IsOnline: true}

	candidates := []Candidate{
		{TeacherID: "t-budi", TeacherName: "Budi", DayOfWeek: 2, TimeSlot: pagi},
		{TeacherID: "t-ani", TeacherName: "Ani", DayOfWeek: 0, TimeSlot: siang},
		{TeacherID: "t-budi", TeacherName: "Budi", DayOfWeek: 0, TimeSlot: pagi},
		{TeacherID: "t-ani", TeacherName: "Ani", DayOfWeek: 0, TimeSlot: pagi},
	}

	t.Run("excludes used day and slot pairs", func(t *testing.T) {
		// Monday Pagi is already taken by another class of the enrollment.
		options := FilterOpen(candidates, []DaySlot{{DayOfWeek: 0, TimeSlotID: "slot-pagi"}})

		require.Len(t, options, 2)
		assert.Equal(t, "t-ani", options[0].TeacherID)
		assert.Equal(t, "Senin", options[0].DayName)
		assert.Equal(t, "13:00 - 15:00", options[0].TimeRange)
		assert.True(t, options[0].IsOnline)
		assert.Equal(t, "Rabu", options[1].DayName)
	})

	t.Run("orders by day, start time then teacher name", func(t *testing.T) {
		options := FilterOpen(candidates, nil)

		require.Len(t, options, 4)
		assert.True(t, options[0].Matches("t-ani", 0, "slot-pagi"))
		assert.True(t, options[1].Matches("t-budi", 0, "slot-pagi"))
		assert.True(t, options[2].Matches("t-ani", 0, "slot-siang"))
		assert.True(t, options[3].Matches("t-budi", 2, "slot-pagi"))
	})

	t.Run("empty when everything is used", func(t *testing.T) {
		options := FilterOpen(candidates, []DaySlot{
			{DayOfWeek: 0, TimeSlotID: "slot-pagi"},
			{DayOfWeek: 0, TimeSlotID: "slot-siang"},
			{DayOfWeek: 2, TimeSlotID: "slot-pagi"},
		})
		assert.Empty(t, options)
	})
}
