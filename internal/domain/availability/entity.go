package availability

import (
	"sort"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/utils"
)

// Availability is one (teacher, master class, weekday, slot) entry a teacher
// declared as teachable.
type Availability struct {
	TeacherID     string `json:"teacher_id"`
	MasterClassID string `json:"master_class_id"`
	DayOfWeek     int    `json:"day_of_week"`
	TimeSlotID    string `json:"timeslot_id"`

	// Join
	MasterClassName string `json:"master_class_name,omitempty"`
	TimeSlotName    string `json:"timeslot_name,omitempty"`
	StartTime       string `json:"start_time,omitempty"`
	EndTime         string `json:"end_time,omitempty"`
}

// Candidate is an availability entry of a skilled teacher, before exclusion.
type Candidate struct {
	TeacherID   string
	TeacherName string
	DayOfWeek   int
	TimeSlot    catalog.TimeSlot
}

// DaySlot identifies a weekday and slot pair.
type DaySlot struct {
	DayOfWeek  int
	TimeSlotID string
}

type SlotOption struct {
	TeacherID    string `json:"teacher_id"`
	TeacherName  string `json:"teacher_name"`
	DayOfWeek    int    `json:"day_of_week"`
	DayName      string `json:"day_name"`
	TimeSlotID   string `json:"timeslot_id"`
	TimeSlotName string `json:"timeslot_name"`
	TimeRange    string `json:"time_range"`
	IsOnline     bool   `json:"is_online"`
}

// Matches reports whether the option offers the given teacher, weekday and slot.
func (o SlotOption) Matches(teacherID string, day int, slotID string) bool {
	return o.TeacherID == teacherID && o.DayOfWeek == day && o.TimeSlotID == slotID
}

// FilterOpen drops every candidate whose (weekday, slot) is already used and
// orders the rest by weekday, slot start and teacher name.
func FilterOpen(candidates []Candidate, used []DaySlot) []SlotOption {
	taken := make(map[DaySlot]struct{}, len(used))
	for _, u := range used {
		taken[u] = struct{}{}
	}

	open := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := taken[DaySlot{DayOfWeek: c.DayOfWeek, TimeSlotID: c.TimeSlot.ID}]; ok {
			continue
		}
		open = append(open, c)
	}

	sort.SliceStable(open, func(i, j int) bool {
		a, b := open[i], open[j]
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek < b.DayOfWeek
		}
		if a.TimeSlot.StartTime != b.TimeSlot.StartTime {
			return a.TimeSlot.StartTime < b.TimeSlot.StartTime
		}
		return a.TeacherName < b.TeacherName
	})

	options := make([]SlotOption, 0, len(open))
	for _, c := range open {
		options = append(options, SlotOption{
			TeacherID:    c.TeacherID,
			TeacherName:  c.TeacherName,
			DayOfWeek:    c.DayOfWeek,
			DayName:      utils.DayName(c.DayOfWeek),
			TimeSlotID:   c.TimeSlot.ID,
			TimeSlotName: c.TimeSlot.Name,
			TimeRange:    c.TimeSlot.TimeRange(),
			IsOnline:     c.TimeSlot.IsOnline,
		})
	}
	return options
}
