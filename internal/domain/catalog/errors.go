package catalog

import "errors"

var (
	ErrTimeSlotNotFound        = errors.New("time slot not found")
	ErrMasterClassNotFound     = errors.New("master class not found")
	ErrMasterClassNameExists   = errors.New("master class name already exists")
	ErrProgramNotFound         = errors.New("program not found")
	ErrProgramClassNotFound    = errors.New("program class not found")
	ErrProgramHasNoClasses     = errors.New("program has no classes")
	ErrSyllabusNotFound        = errors.New("syllabus item not found")
	ErrSyllabusExceedsSessions = errors.New("syllabus sessions exceed the class total sessions")
)
