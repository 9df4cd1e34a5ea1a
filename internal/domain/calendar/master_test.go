package calendar

import (
	"testing"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMasterSchedule(t *testing.T) {
	slots := []catalog.TimeSlot{
		{ID: "pagi", Name: "Pagi", StartTime: "09:00", EndTime: "11:00"},
		{ID: "siang", Name: "Siang", StartTime: "13:00", EndTime: "15:00"},
	}
	schedules := []enrollment.WeeklySchedule{
		{ID: "ws-1", TeacherID: "t-ani", TeacherName: "Ani", DayOfWeek: 0, TimeSlotID: "siang", StudentName: "Sari", ClassName: "Sewing"},
		{ID: "ws-2", TeacherID: "t-ani", TeacherName: "Ani", DayOfWeek: 0, TimeSlotID: "siang", StudentName: "Tari", ClassName: "Sewing"},
		{ID: "ws-3", TeacherID: "t-budi", TeacherName: "Budi", DayOfWeek: 6, TimeSlotID: "pagi", StudentName: "Sari", ClassName: "Pattern"},
		{ID: "ws-4", DayOfWeek: 2, TimeSlotID: "malam"},
	}

	grid := BuildMasterSchedule(slots, schedules)
	require.Len(t, grid, 7)
	assert.Equal(t, "Senin", grid[0].DayName)
	assert.Equal(t, "Minggu", grid[6].DayName)

	for _, day := range grid {
		require.Len(t, day.Slots, 2)
		assert.Equal(t, "pagi", day.Slots[0].TimeSlotID)
	}
	monday := grid[0].Slots[1]
	require.Len(t, monday.Entries, 2)
	assert.Equal(t, "ws-1", monday.Entries[0].ScheduleID)
	assert.Equal(t, "Tari", monday.Entries[1].StudentName)
	assert.Equal(t, "Budi", grid[6].Slots[0].Entries[0].TeacherName)

	assert.NotNil(t, grid[2].Slots[0].Entries)
	assert.Empty(t, grid[2].Slots[0].Entries)
	assert.Empty(t, grid[2].Slots[1].Entries)
}
