package enrollment

import "errors"

var (
	ErrEnrollmentNotFound       = errors.New("enrollment not found")
	ErrClassEnrollmentNotFound  = errors.New("class enrollment not found")
	ErrClassEnrollmentNotOwned  = errors.New("class enrollment does not belong to this student")
	ErrFirstClassDateAlreadySet = errors.New("first class date has already been set")
	ErrNoSessionsRemaining      = errors.New("no sessions remaining")
	ErrIzinQuotaExhausted       = errors.New("izin quota exhausted")
	ErrScheduleSlotTaken        = errors.New("weekly schedule slot already taken")
	ErrScheduleNotFound         = errors.New("weekly schedule not found")
	ErrInvalidStatus            = errors.New("invalid enrollment status")
	ErrInvalidSessionsRemaining = errors.New("sessions_remaining must be between 0 and the class total sessions")
)
