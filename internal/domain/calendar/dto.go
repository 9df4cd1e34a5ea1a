package calendar

import (
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/validator"
)

// MaxRangeDays bounds a single calendar query.
const MaxRangeDays = 62

type RangeQuery struct {
	From string
	To   string
}

// Parse validates the range and returns it as civil dates.
func (q RangeQuery) Parse() (time.Time, time.Time, error) {
	var errs validator.ValidationErrors

	from, okFrom := validator.IsValidDate(q.From)
	if !okFrom {
		errs.Add("from", "from must use YYYY-MM-DD format")
	}
	to, okTo := validator.IsValidDate(q.To)
	if !okTo {
		errs.Add("to", "to must use YYYY-MM-DD format")
	}
	if okFrom && okTo {
		if to.Before(from) {
			errs.Add("to", "to must not be before from")
		} else if to.Sub(from) > MaxRangeDays*24*time.Hour {
			errs.Add("to", "range must not exceed 62 days")
		}
	}

	if err := errs.Err(); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}
