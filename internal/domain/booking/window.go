package booking

import "time"

const (
	// AttendancePreWindow is how long before slot start attendance opens.
	AttendancePreWindow = 15 * time.Minute
	// IzinNotice is the minimum lead time for a student izin.
	IzinNotice = time.Hour
	// LateRequestDays is how many days after the session a late request is accepted.
	LateRequestDays = 2
)

type Window string

const (
	WindowNotYetOpen Window = "not_yet_open"
	WindowOpen       Window = "open"
	WindowClosed     Window = "closed"
)

// WindowAt returns the attendance window state at now for a slot [start, end].
func WindowAt(now, start, end time.Time) Window {
	switch {
	case now.Before(start.Add(-AttendancePreWindow)):
		return WindowNotYetOpen
	case now.After(end):
		return WindowClosed
	default:
		return WindowOpen
	}
}

// CheckWindow returns ErrAttendanceNotYetOpen or ErrAttendanceWindowClosed
// when attendance cannot be submitted at now.
func CheckWindow(now, start, end time.Time) error {
	switch WindowAt(now, start, end) {
	case WindowNotYetOpen:
		return ErrAttendanceNotYetOpen
	case WindowClosed:
		return ErrAttendanceWindowClosed
	}
	return nil
}

// CheckIzinNotice requires at least IzinNotice between now and slot start.
func CheckIzinNotice(now, start time.Time) error {
	if start.Sub(now) < IzinNotice {
		return ErrIzinTooLate
	}
	return nil
}

// CheckLateRequest accepts a late request only after the slot has ended and
// no later than LateRequestDays after the session date. today is the civil
// date of now in the school's location.
func CheckLateRequest(now, end, date, today time.Time) error {
	if !now.After(end) {
		return ErrLateRequestNotNeeded
	}
	if today.After(date.AddDate(0, 0, LateRequestDays)) {
		return ErrLateWindowExpired
	}
	return nil
}
