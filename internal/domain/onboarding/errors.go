package onboarding

import "errors"

var (
	ErrNoPendingEnrollment  = errors.New("no enrollment waiting for schedule selection")
	ErrNoSlotOptions        = errors.New("no available slot options for this class, please contact the admin")
	ErrSlotNotAvailable     = errors.New("selected slot is not available")
	ErrClassNotSchedulable  = errors.New("class does not need another weekly schedule")
	ErrNotPendingFirstClass = errors.New("enrollment is not waiting for a first class date")
	ErrDateNotInSchedule    = errors.New("first class date does not fall on a scheduled day")
	ErrDateInPast           = errors.New("first class date must not be in the past")
)
