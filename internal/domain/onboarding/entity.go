package onboarding

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/utils"
)

const (
	// ExpansionWeeks is how far ahead bookings are materialized.
	ExpansionWeeks = 4
	// FirstClassDateWindowDays is how many days, from today, a student may
	// choose the first class date from.
	FirstClassDateWindowDays = 28
)

// PlannedBooking is one session the expansion wants to exist.
type PlannedBooking struct {
	EnrollmentID      string
	ClassEnrollmentID string
	TeacherID         string
	Date              time.Time
	TimeSlotID        string
}

// PlanOccurrences walks every date in [from, from + weeks] inclusive and
// emits a booking for each pattern whose weekday matches.
func PlanOccurrences(patterns []enrollment.WeeklySchedule, from time.Time, weeks int) []PlannedBooking {
	from = utils.DateOf(from)
	to := from.AddDate(0, 0, 7*weeks)

	var planned []PlannedBooking
	for _, d := range utils.DatesBetween(from, to) {
		day := utils.Weekday(d)
		for _, p := range patterns {
			if p.DayOfWeek != day {
				continue
			}
			planned = append(planned, PlannedBooking{
				EnrollmentID:      p.EnrollmentID,
				ClassEnrollmentID: p.ClassEnrollmentID,
				TeacherID:         p.TeacherID,
				Date:              d,
				TimeSlotID:        p.TimeSlotID,
			})
		}
	}
	return planned
}

// PatternsNeeded is how many weekly patterns a class still lacks.
func PatternsNeeded(class enrollment.ClassEnrollment, schedules []enrollment.WeeklySchedule) int {
	if class.IsBatch {
		return 0
	}
	existing := 0
	for _, s := range schedules {
		if s.ClassEnrollmentID == class.ID {
			existing++
		}
	}
	if n := class.SessionsPerWeek - existing; n > 0 {
		return n
	}
	return 0
}

// NextClassToSchedule returns the first non-batch class, in display order,
// that still lacks weekly patterns.
func NextClassToSchedule(classes []enrollment.ClassEnrollment, schedules []enrollment.WeeklySchedule) (*enrollment.ClassEnrollment, int) {
	ordered := make([]enrollment.ClassEnrollment, len(classes))
	copy(ordered, classes)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].DisplayOrder < ordered[j].DisplayOrder })

	for i := range ordered {
		if n := PatternsNeeded(ordered[i], schedules); n > 0 {
			return &ordered[i], n
		}
	}
	return nil, 0
}

// FirstClassDateOptions lists the dates in the next FirstClassDateWindowDays,
// starting today, that fall on a scheduled weekday.
func FirstClassDateOptions(schedules []enrollment.WeeklySchedule, today time.Time) []DateOption {
	days := make(map[int]bool, len(schedules))
	for _, s := range schedules {
		days[s.DayOfWeek] = true
	}

	today = utils.DateOf(today)
	var options []DateOption
	for i := 0; i < FirstClassDateWindowDays; i++ {
		d := today.AddDate(0, 0, i)
		day := utils.Weekday(d)
		if !days[day] {
			continue
		}
		options = append(options, DateOption{
			Date:    d.Format(utils.DateLayout),
			DayName: utils.DayName(day),
			Label:   utils.DayName(day) + ", " + utils.FormatLongDate(d),
		})
	}
	return options
}

// ScheduledOn reports whether any pattern falls on the weekday of date.
func ScheduledOn(schedules []enrollment.WeeklySchedule, date time.Time) bool {
	day := utils.Weekday(date)
	for _, s := range schedules {
		if s.DayOfWeek == day {
			return true
		}
	}
	return false
}
