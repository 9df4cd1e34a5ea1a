package portfolio

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/validator"
)

const MaxUploadSize = 10 << 20

var allowedExtensions = []string{".jpg", ".jpeg", ".png", ".pdf"}

type UploadRequest struct {
	ClassEnrollmentID string
	SyllabusID        *string
	Title             string
	FileName          string
	ContentType       string
	Size              int64
	File              io.Reader
}

func (r *UploadRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ClassEnrollmentID) {
		errs.Add("class_enrollment_id", "class_enrollment_id is required")
	}
	if validator.IsEmpty(r.Title) {
		errs.Add("title", "title is required")
	} else if len(r.Title) > 255 {
		errs.Add("title", "title must not exceed 255 characters")
	}
	if r.File == nil {
		errs.Add("file", "file is required")
	} else {
		if r.Size > MaxUploadSize {
			errs.Add("file", ErrFileTooLarge.Error())
		}
		if !validator.IsInSlice(Extension(r.FileName), allowedExtensions) {
			errs.Add("file", ErrFileTypeNotAllowed.Error())
		}
	}

	return errs.Err()
}

func Extension(name string) string {
	return strings.ToLower(filepath.Ext(name))
}
