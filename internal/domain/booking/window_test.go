package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckWindow(t *testing.T) {
	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 10, 19, 11, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want error
	}{
		{"an hour before start", start.Add(-time.Hour), ErrAttendanceNotYetOpen},
		{"16 minutes before start", start.Add(-16 * time.Minute), ErrAttendanceNotYetOpen},
		{"exactly 15 minutes before start", start.Add(-15 * time.Minute), nil},
		{"during session", start.Add(30 * time.Minute), nil},
		{"exactly at end", end, nil},
		{"one minute after end", end.Add(time.Minute), ErrAttendanceWindowClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckWindow(tt.now, start, end))
		})
	}
}

func TestCheckWindow_ErrorsAreDistinct(t *testing.T) {
	assert.NotEqual(t, ErrAttendanceNotYetOpen, ErrAttendanceWindowClosed)
	assert.NotEqual(t, ErrAttendanceNotYetOpen.Error(), ErrAttendanceWindowClosed.Error())
}

func TestCheckIzinNotice(t *testing.T) {
	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	assert.ErrorIs(t, CheckIzinNotice(start.Add(-59*time.Minute), start), ErrIzinTooLate)
	assert.NoError(t, CheckIzinNotice(start.Add(-60*time.Minute), start))
	assert.NoError(t, CheckIzinNotice(start.Add(-61*time.Minute), start))
	assert.ErrorIs(t, CheckIzinNotice(start.Add(time.Minute), start), ErrIzinTooLate)
}

func TestCheckLateRequest(t *testing.T) {
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 10, 19, 11, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		now   time.Time
		today time.Time
		want  error
	}{
		{"before end", end.Add(-time.Minute), date, ErrLateRequestNotNeeded},
		{"same day after end", end.Add(time.Minute), date, nil},
		{"two days later", end.Add(48 * time.Hour), date.AddDate(0, 0, 2), nil},
		{"three days later", end.Add(72 * time.Hour), date.AddDate(0, 0, 3), ErrLateWindowExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckLateRequest(tt.now, end, date, tt.today))
		})
	}
}

func TestParseAttendanceStatus(t *testing.T) {
	assert.Equal(t, AttendanceHadir, ParseAttendanceStatus("Hadir"))
	assert.Equal(t, AttendanceHadir, ParseAttendanceStatus(" hadir "))
	assert.Equal(t, AttendanceIzin, ParseAttendanceStatus("IZIN"))
	assert.Equal(t, AttendanceAlpha, ParseAttendanceStatus("Alpha"))
	assert.Equal(t, AttendanceAlpha, ParseAttendanceStatus(""))
	assert.Equal(t, AttendanceAlpha, ParseAttendanceStatus("Sakit"))
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusBooked.IsTerminal())
	assert.True(t, StatusIzin.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
}

func TestTally_Add(t *testing.T) {
	var tally Tally
	tally.Add(AttendanceHadir)
	tally.Add(AttendanceHadir)
	tally.Add(AttendanceIzin)
	tally.Add(AttendanceAlpha)

	assert.Equal(t, Tally{Hadir: 2, Izin: 1, Alpha: 1}, tally)
}
