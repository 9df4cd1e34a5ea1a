package override

import "errors"

var (
	ErrOverrideNotFound = errors.New("teacher session override not found")
	ErrSameTeacher      = errors.New("substitute teacher must differ from the original teacher")
)
