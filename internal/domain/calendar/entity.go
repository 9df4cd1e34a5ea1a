package calendar

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/booking"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/override"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/utils"
)

type Kind string

const (
	KindBooking   Kind = "booking"
	KindProjected Kind = "projected"
)

// Occurrence is a read-only calendar entry. It is either a stored booking or
// a session projected from a weekly schedule that has no booking yet, and it
// always carries the effective teacher.
type Occurrence struct {
	Kind              Kind                      `json:"kind"`
	BookingID         *string                   `json:"booking_id,omitempty"`
	EnrollmentID      string                    `json:"enrollment_id"`
	ClassEnrollmentID string                    `json:"class_enrollment_id"`
	StudentID         string                    `json:"student_id"`
	StudentName       string                    `json:"student_name"`
	ClassName         string                    `json:"class_name"`
	Date              time.Time                 `json:"date"`
	DayName           string                    `json:"day_name"`
	TimeSlotID        string                    `json:"timeslot_id"`
	SlotName          string                    `json:"timeslot_name"`
	StartTime         string                    `json:"start_time"`
	EndTime           string                    `json:"end_time"`
	TeacherID         string                    `json:"teacher_id"`
	TeacherName       string                    `json:"teacher_name,omitempty"`
	BookedTeacherID   string                    `json:"booked_teacher_id"`
	Substituted       bool                      `json:"substituted"`
	Status            booking.Status            `json:"status,omitempty"`
	AttendanceStatus  *booking.AttendanceStatus `json:"attendance_status,omitempty"`
}

type sessionKey struct {
	enrollmentID string
	date         string
	slotID       string
}

func keyFor(enrollmentID string, date time.Time, slotID string) sessionKey {
	return sessionKey{enrollmentID: enrollmentID, date: utils.DateOf(date).Format(utils.DateLayout), slotID: slotID}
}

// FromBooking converts a stored booking into an occurrence.
func FromBooking(b booking.Booking, idx *override.Index) Occurrence {
	id := b.ID
	effective := idx.Resolve(b.TeacherID, b.Date, b.TimeSlotID)
	return Occurrence{
		Kind:              KindBooking,
		BookingID:         &id,
		EnrollmentID:      b.EnrollmentID,
		ClassEnrollmentID: b.ClassEnrollmentID,
		StudentID:         b.StudentID,
		StudentName:       b.StudentName,
		ClassName:         b.ClassName,
		Date:              utils.DateOf(b.Date),
		DayName:           utils.DayName(utils.Weekday(b.Date)),
		TimeSlotID:        b.TimeSlotID,
		SlotName:          b.SlotName,
		StartTime:         b.SlotStart,
		EndTime:           b.SlotEnd,
		TeacherID:         effective,
		BookedTeacherID:   b.TeacherID,
		Substituted:       effective != b.TeacherID,
		Status:            b.Status,
		AttendanceStatus:  b.AttendanceStatus,
	}
}

// Project builds the calendar over [from, to]: every booking plus, for each
// weekly pattern, the dates from max(from, first class date) whose weekday
// matches and that hold no booking of the same enrollment and slot.
func Project(patterns []enrollment.WeeklySchedule, bookings []booking.Booking, from, to time.Time, idx *override.Index) []Occurrence {
	from, to = utils.DateOf(from), utils.DateOf(to)

	occurrences := make([]Occurrence, 0, len(bookings))
	booked := make(map[sessionKey]struct{}, len(bookings))
	for _, b := range bookings {
		booked[keyFor(b.EnrollmentID, b.Date, b.TimeSlotID)] = struct{}{}
		d := utils.DateOf(b.Date)
		if d.Before(from) || d.After(to) {
			continue
		}
		occurrences = append(occurrences, FromBooking(b, idx))
	}

	for _, p := range patterns {
		if p.FirstClassDate == nil {
			continue
		}
		start := from
		if first := utils.DateOf(*p.FirstClassDate); first.After(start) {
			start = first
		}
		for _, d := range utils.DatesBetween(start, to) {
			if utils.Weekday(d) != p.DayOfWeek {
				continue
			}
			if _, ok := booked[keyFor(p.EnrollmentID, d, p.TimeSlotID)]; ok {
				continue
			}
			effective := idx.Resolve(p.TeacherID, d, p.TimeSlotID)
			occurrences = append(occurrences, Occurrence{
				Kind:              KindProjected,
				EnrollmentID:      p.EnrollmentID,
				ClassEnrollmentID: p.ClassEnrollmentID,
				StudentID:         p.StudentID,
				StudentName:       p.StudentName,
				ClassName:         p.ClassName,
				Date:              d,
				DayName:           utils.DayName(p.DayOfWeek),
				TimeSlotID:        p.TimeSlotID,
				SlotName:          p.TimeSlotName,
				StartTime:         p.StartTime,
				EndTime:           p.EndTime,
				TeacherID:         effective,
				BookedTeacherID:   p.TeacherID,
				Substituted:       effective != p.TeacherID,
			})
		}
	}

	Sort(occurrences)
	return occurrences
}

// ForTeacher keeps the occurrences whose effective teacher is teacherID.
func ForTeacher(occurrences []Occurrence, teacherID string) []Occurrence {
	out := make([]Occurrence, 0, len(occurrences))
	for _, o := range occurrences {
		if o.TeacherID == teacherID {
			out = append(out, o)
		}
	}
	return out
}

// Sort orders occurrences by date, slot start and student name.
func Sort(occurrences []Occurrence) {
	sort.SliceStable(occurrences, func(i, j int) bool {
		a, b := occurrences[i], occurrences[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.StudentName < b.StudentName
	})
}

// AttendanceSheet is what a teacher sees when recording one slot.
type AttendanceSheet struct {
	Date     time.Time         `json:"date"`
	TimeSlot catalog.TimeSlot  `json:"timeslot"`
	Window   booking.Window    `json:"window"`
	Bookings []booking.Booking `json:"bookings"`
	Upcoming []Occurrence      `json:"upcoming"`
}
