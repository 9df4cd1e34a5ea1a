package reschedule

import "errors"

var (
	ErrRequestNotFound         = errors.New("reschedule request not found")
	ErrRequestAlreadyProcessed = errors.New("reschedule request has already been processed")
	ErrRequestPending          = errors.New("a reschedule request is already pending for this booking")
	ErrBookingNotReschedulable = errors.New("booking can no longer be rescheduled")
	ErrNotAllowed              = errors.New("you are not allowed to reschedule this booking")
	ErrSameSchedule            = errors.New("new schedule is identical to the current one")
	ErrNewDateInPast           = errors.New("new date must not be in the past")
	ErrTeacherOnlyChange       = errors.New("to change only the teacher of a session, create a teacher substitution instead")
)
