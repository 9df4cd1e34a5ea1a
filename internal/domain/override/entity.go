package override

import (
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/utils"
)

// Override substitutes a teacher for every session of (date, slot) the
// original teacher would teach. Bookings keep their teacher_id; the
// substitution is applied when reading.
type Override struct {
	ID                  string    `json:"id"`
	Date                time.Time `json:"date"`
	TimeSlotID          string    `json:"timeslot_id"`
	OriginalTeacherID   string    `json:"original_teacher_id"`
	SubstituteTeacherID string    `json:"substitute_teacher_id"`
	CreatedBy           string    `json:"created_by"`
	Reason              string    `json:"reason"`
	CreatedAt           time.Time `json:"created_at"`

	// Join
	OriginalTeacherName   string `json:"original_teacher_name,omitempty"`
	SubstituteTeacherName string `json:"substitute_teacher_name,omitempty"`
	TimeSlotName          string `json:"timeslot_name,omitempty"`
}

type key struct {
	date    string
	slotID  string
	teacher string
}

func keyOf(date time.Time, slotID, teacherID string) key {
	return key{date: utils.DateOf(date).Format(utils.DateLayout), slotID: slotID, teacher: teacherID}
}

// Index answers effective-teacher lookups over a set of overrides.
type Index struct {
	substitutes map[key]string
	originals   map[string][]string
}

func NewIndex(overrides []Override) *Index {
	idx := &Index{
		substitutes: make(map[key]string, len(overrides)),
		originals:   make(map[string][]string),
	}
	for _, o := range overrides {
		idx.substitutes[keyOf(o.Date, o.TimeSlotID, o.OriginalTeacherID)] = o.SubstituteTeacherID
		idx.originals[o.SubstituteTeacherID] = appendUnique(idx.originals[o.SubstituteTeacherID], o.OriginalTeacherID)
	}
	return idx
}

// Resolve returns the teacher who actually teaches a session booked with
// teacherID on (date, slotID).
func (idx *Index) Resolve(teacherID string, date time.Time, slotID string) string {
	if idx == nil {
		return teacherID
	}
	if sub, ok := idx.substitutes[keyOf(date, slotID, teacherID)]; ok {
		return sub
	}
	return teacherID
}

// SubstitutedFor lists the original teachers that substituteID stands in for.
func (idx *Index) SubstitutedFor(substituteID string) []string {
	if idx == nil {
		return nil
	}
	return idx.originals[substituteID]
}

// ResolveEffectiveTeacher is the single-lookup form of Index.Resolve.
func ResolveEffectiveTeacher(overrides []Override, teacherID string, date time.Time, slotID string) string {
	return NewIndex(overrides).Resolve(teacherID, date, slotID)
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}
