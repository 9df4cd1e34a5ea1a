package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	playground "github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// Add appends a field error.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// Err returns nil when no error has been collected.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

var (
	structValidator *playground.Validate
	once            sync.Once
)

func engine() *playground.Validate {
	once.Do(func() {
		structValidator = playground.New(playground.WithRequiredStructEnabled())
		structValidator.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return structValidator
}

// Struct runs the `validate` struct tags of s and converts failures into
// ValidationErrors keyed by json field name.
func Struct(s interface{}) ValidationErrors {
	err := engine().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Field: "request", Message: err.Error()}}
	}

	errs := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{Field: fe.Field(), Message: message(fe)})
	}
	return errs
}

func message(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "uuid", "uuid4":
		return "must be a valid id"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

var numericRegex = regexp.MustCompile(`^[0-9]+$`)

func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// IsValidDate checks a YYYY-MM-DD string.
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

var clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// IsValidClock checks an HH:MM 24-hour string.
func IsValidClock(s string) bool {
	return clockRegex.MatchString(s)
}

// NormalizePhoneNumber turns 08xx, 62xx and +62xx numbers into the 62xx form.
// The subscriber part after 62 must be 9 to 13 digits.
func NormalizePhoneNumber(phone string) (string, bool) {
	phone = strings.NewReplacer(" ", "", "-", "", "+", "").Replace(phone)

	switch {
	case strings.HasPrefix(phone, "0"):
		phone = "62" + phone[1:]
	case strings.HasPrefix(phone, "62"):
	default:
		return "", false
	}

	rest := strings.TrimPrefix(phone, "62")
	if !IsNumeric(rest) || len(rest) < 9 || len(rest) > 13 {
		return "", false
	}
	return phone, true
}

func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}
