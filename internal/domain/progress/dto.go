package progress

import (
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/booking"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
)

type ClassProgress struct {
	ClassEnrollmentID string                 `json:"class_enrollment_id"`
	ClassName         string                 `json:"class_name"`
	Status            enrollment.ClassStatus `json:"status"`
	IsBatch           bool                   `json:"is_batch"`
	TotalSessions     int                    `json:"total_sessions"`
	Completed         int                    `json:"completed"`
	Remaining         int                    `json:"remaining"`
	Percentage        int                    `json:"percentage"`
	Tally             booking.Tally          `json:"tally"`
	IzinUsed          int                    `json:"izin_used"`
	IzinRemaining     int                    `json:"izin_remaining"`
	MaxIzin           int                    `json:"max_izin"`
	CurrentTopic      string                 `json:"current_topic"`
	Topic             Topic                  `json:"topic"`
	Recent            []booking.Attendance   `json:"recent_attendances"`
}

type StudentProgress struct {
	EnrollmentID   string            `json:"enrollment_id"`
	StudentID      string            `json:"student_id"`
	StudentName    string            `json:"student_name"`
	ProgramName    string            `json:"program_name"`
	Status         enrollment.Status `json:"status"`
	FirstClassDate *string           `json:"first_class_date,omitempty"`
	TotalSessions  int               `json:"total_sessions"`
	Completed      int               `json:"completed"`
	Remaining      int               `json:"remaining"`
	Percentage     int               `json:"percentage"`
	Classes        []ClassProgress   `json:"classes"`
}

// TeacherStudent is a student a teacher teaches, with the classes in common.
type TeacherStudent struct {
	StudentID   string          `json:"student_id"`
	StudentName string          `json:"student_name"`
	Progress    StudentProgress `json:"progress"`
}

// RecentAttendanceLimit bounds the attendance history shown per class.
const RecentAttendanceLimit = 5
