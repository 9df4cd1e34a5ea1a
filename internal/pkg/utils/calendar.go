package utils

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// DayNames is indexed by day of week with Monday = 0.
var DayNames = [7]string{"Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu", "Minggu"}

var monthNames = [12]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// Weekday returns the day of week of t with Monday = 0 and Sunday = 6.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// DayName returns the Indonesian name for a Monday-based day index.
func DayName(day int) string {
	if day < 0 || day > 6 {
		return "-"
	}
	return DayNames[day]
}

// DateOf strips the clock from t and returns the civil date at UTC midnight.
// All booking dates in the system use this representation.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the civil date of now in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	return DateOf(now.In(loc))
}

// ParseDate parses a YYYY-MM-DD string into a civil date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

// ParseClock parses an HH:MM string and returns hour and minute.
func ParseClock(s string) (int, int, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// At combines a civil date with an HH:MM clock in loc.
func At(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	h, m, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := date.Date()
	return time.Date(y, mo, d, h, m, 0, 0, loc), nil
}

// FormatLongDate renders a date as "02 Januari 2006".
func FormatLongDate(t time.Time) string {
	return fmt.Sprintf("%02d %s %d", t.Day(), monthNames[t.Month()-1], t.Year())
}

// FormatShortDate renders a date as "02/01".
func FormatShortDate(t time.Time) string {
	return t.Format("02/01")
}

// DatesBetween returns every civil date in [from, to], inclusive.
func DatesBetween(from, to time.Time) []time.Time {
	from, to = DateOf(from), DateOf(to)
	var dates []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
