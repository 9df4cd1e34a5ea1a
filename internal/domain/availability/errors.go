package availability

import "errors"

var (
	ErrMissingSkill   = errors.New("teacher does not have the skill for this master class")
	ErrDuplicateEntry = errors.New("duplicate availability entry")
)
