package utils

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekday(t *testing.T) {
	// 2026-10-19 is a Monday
	monday := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		assert.Equal(t, i, Weekday(monday.AddDate(0, 0, i)))
	}
	assert.Equal(t, "Senin", DayName(Weekday(monday)))
	assert.Equal(t, "Minggu", DayName(6))
	assert.Equal(t, "-", DayName(7))
}

func TestAtUsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	date, err := ParseDate("2026-10-19")
	require.NoError(t, err)

	start, err := At(date, "10:00", loc)
	require.NoError(t, err)
	assert.Equal(t, 3, start.UTC().Hour())
	assert.Equal(t, 19, start.Day())

	_, err = At(date, "25:00", loc)
	assert.Error(t, err)
}

func TestTodayCrossesMidnight(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	// 18:30 UTC is 01:30 the next day in Jakarta
	now := time.Date(2026, 10, 18, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), Today(now, loc))
}

func TestDatesBetween(t *testing.T) {
	from := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	dates := DatesBetween(from, from.AddDate(0, 0, 28))
	assert.Len(t, dates, 29)
	assert.Empty(t, DatesBetween(from, from.AddDate(0, 0, -1)))
}

func TestFormatLongDate(t *testing.T) {
	assert.Equal(t, "05 Oktober 2026", FormatLongDate(time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "05/10", FormatShortDate(time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)))
}
