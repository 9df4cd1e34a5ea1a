package booking

import "errors"

var (
	ErrBookingNotFound        = errors.New("booking not found")
	ErrDuplicateBooking       = errors.New("booking already exists for this enrollment, date and slot")
	ErrBookingNotOwned        = errors.New("booking does not belong to this student")
	ErrBookingNotBooked       = errors.New("booking is no longer in booked status")
	ErrBookingAlreadyAttended = errors.New("attendance has already been recorded for this booking")
	ErrNotSessionTeacher      = errors.New("you are not the teacher of this session")
	ErrAttendanceNotFound     = errors.New("attendance not found")
	ErrBookingNotCancelled    = errors.New("booking is not cancelled")
	ErrBookingNotDeletable    = errors.New("only booked or cancelled bookings can be deleted")

	ErrAttendanceNotYetOpen   = errors.New("attendance opens 15 minutes before the session starts")
	ErrAttendanceWindowClosed = errors.New("session has ended, submit a late attendance request instead")

	ErrIzinTooLate    = errors.New("izin must be requested at least 1 hour before the session")
	ErrIzinNotAllowed = errors.New("izin is not allowed for this class")

	ErrLateRequestNotNeeded    = errors.New("session has not ended yet, submit attendance directly")
	ErrLateWindowExpired       = errors.New("late attendance can only be requested up to 2 days after the session")
	ErrLateRequestPending      = errors.New("a late attendance request is already pending for this booking")
	ErrRequestNotFound         = errors.New("attendance request not found")
	ErrRequestAlreadyProcessed = errors.New("request has already been processed")
)
