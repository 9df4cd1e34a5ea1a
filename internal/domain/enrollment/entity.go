package enrollment

import "time"

type Status string

const (
	StatusPendingSchedule   Status = "pending_schedule"
	StatusPendingFirstClass Status = "pending_first_class"
	StatusActive            Status = "active"
	StatusCompleted         Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPendingSchedule, StatusPendingFirstClass, StatusActive, StatusCompleted:
		return true
	}
	return false
}

type ClassStatus string

const (
	ClassStatusActive    ClassStatus = "active"
	ClassStatusCompleted ClassStatus = "completed"
)

func (s ClassStatus) Valid() bool {
	return s == ClassStatusActive || s == ClassStatusCompleted
}

type Enrollment struct {
	ID             string     `json:"id"`
	StudentID      string     `json:"student_id"`
	ProgramID      string     `json:"program_id"`
	Status         Status     `json:"status"`
	FirstClassDate *time.Time `json:"first_class_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Join
	StudentName  string `json:"student_name,omitempty"`
	StudentPhone string `json:"student_phone,omitempty"`
	ProgramName  string `json:"program_name,omitempty"`
}

// ClassEnrollment is the per-class session ledger of an enrollment.
type ClassEnrollment struct {
	ID                string      `json:"id"`
	EnrollmentID      string      `json:"enrollment_id"`
	ProgramClassID    string      `json:"program_class_id"`
	SessionsRemaining int         `json:"sessions_remaining"`
	IzinUsed          int         `json:"izin_used"`
	Status            ClassStatus `json:"status"`

	// Join from program_classes and master_classes
	ClassName       string `json:"class_name"`
	MasterClassID   string `json:"master_class_id"`
	TotalSessions   int    `json:"total_sessions"`
	SessionsPerWeek int    `json:"sessions_per_week"`
	IsBatch         bool   `json:"is_batch"`
	MaxIzin         int    `json:"max_izin"`
	DisplayOrder    int    `json:"display_order"`
}

func (c ClassEnrollment) CompletedSessions() int {
	return c.TotalSessions - c.SessionsRemaining
}

func (c ClassEnrollment) IzinRemaining() int {
	if c.IzinUsed >= c.MaxIzin {
		return 0
	}
	return c.MaxIzin - c.IzinUsed
}

// SessionsRemainingTotal sums the remaining sessions of an enrollment's classes.
func SessionsRemainingTotal(classes []ClassEnrollment) int {
	total := 0
	for _, c := range classes {
		total += c.SessionsRemaining
	}
	return total
}

// WeeklySchedule is a recurring (teacher, weekday, slot) pattern for one class.
type WeeklySchedule struct {
	ID                string `json:"id"`
	EnrollmentID      string `json:"enrollment_id"`
	ClassEnrollmentID string `json:"class_enrollment_id"`
	TeacherID         string `json:"teacher_id"`
	DayOfWeek         int    `json:"day_of_week"`
	TimeSlotID        string `json:"timeslot_id"`

	// Join
	TeacherName    string     `json:"teacher_name,omitempty"`
	TimeSlotName   string     `json:"timeslot_name,omitempty"`
	StartTime      string     `json:"start_time,omitempty"`
	EndTime        string     `json:"end_time,omitempty"`
	StudentID      string     `json:"student_id,omitempty"`
	StudentName    string     `json:"student_name,omitempty"`
	ClassName      string     `json:"class_name,omitempty"`
	FirstClassDate *time.Time `json:"first_class_date,omitempty"`
}
