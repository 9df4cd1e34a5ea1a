package portfolio

import "errors"

var (
	ErrFileTooLarge       = errors.New("file exceeds the maximum upload size")
	ErrFileTypeNotAllowed = errors.New("file type is not allowed")
	ErrSyllabusMismatch   = errors.New("syllabus item does not belong to this class")
	ErrPortfolioNotFound  = errors.New("portfolio not found")
)
