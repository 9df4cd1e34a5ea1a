package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrEmailAlreadyRegistered  = errors.New("email already registered")
	ErrInvalidRole             = errors.New("invalid role")
	ErrNotATeacher             = errors.New("user is not a teacher")
	ErrNotAStudent             = errors.New("user is not a student")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
