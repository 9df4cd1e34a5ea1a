package calendar

import (
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/utils"
)

// MasterEntry is one student's recurring session in the master schedule.
type MasterEntry struct {
	ScheduleID        string `json:"schedule_id"`
	EnrollmentID      string `json:"enrollment_id"`
	ClassEnrollmentID string `json:"class_enrollment_id"`
	StudentID         string `json:"student_id"`
	StudentName       string `json:"student_name"`
	ClassName         string `json:"class_name"`
	TeacherID         string `json:"teacher_id"`
	TeacherName       string `json:"teacher_name"`
}

type MasterCell struct {
	TimeSlotID string        `json:"timeslot_id"`
	SlotName   string        `json:"timeslot_name"`
	StartTime  string        `json:"start_time"`
	EndTime    string        `json:"end_time"`
	Entries    []MasterEntry `json:"entries"`
}

type MasterDay struct {
	DayOfWeek int          `json:"day_of_week"`
	DayName   string       `json:"day_name"`
	Slots     []MasterCell `json:"slots"`
}

// BuildMasterSchedule lays the weekly patterns out on a Monday-first
// weekday x slot grid. Every day lists every slot, empty or not, in the
// order slots are given. Patterns on an unknown slot are dropped.
func BuildMasterSchedule(slots []catalog.TimeSlot, schedules []enrollment.WeeklySchedule) []MasterDay {
	days := make([]MasterDay, 7)
	column := make(map[string]int, len(slots))
	for i, s := range slots {
		column[s.ID] = i
	}
	for d := range days {
		days[d] = MasterDay{DayOfWeek: d, DayName: utils.DayName(d), Slots: make([]MasterCell, len(slots))}
		for i, s := range slots {
			days[d].Slots[i] = MasterCell{
				TimeSlotID: s.ID,
				SlotName:   s.Name,
				StartTime:  s.StartTime,
				EndTime:    s.EndTime,
				Entries:    []MasterEntry{},
			}
		}
	}

	for _, ws := range schedules {
		i, ok := column[ws.TimeSlotID]
		if !ok || ws.DayOfWeek < 0 || ws.DayOfWeek > 6 {
			continue
		}
		cell := &days[ws.DayOfWeek].Slots[i]
		cell.Entries = append(cell.Entries, MasterEntry{
			ScheduleID:        ws.ID,
			EnrollmentID:      ws.EnrollmentID,
			ClassEnrollmentID: ws.ClassEnrollmentID,
			StudentID:         ws.StudentID,
			StudentName:       ws.StudentName,
			ClassName:         ws.ClassName,
			TeacherID:         ws.TeacherID,
			TeacherName:       ws.TeacherName,
		})
	}
	return days
}
