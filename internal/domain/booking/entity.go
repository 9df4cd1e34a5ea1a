package booking

import (
	"strings"
	"time"
)

type Status string

const (
	StatusBooked    Status = "booked"
	StatusIzin      Status = "izin"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s Status) IsTerminal() bool {
	return s != StatusBooked
}

type AttendanceStatus string

const (
	AttendanceHadir AttendanceStatus = "Hadir"
	AttendanceIzin  AttendanceStatus = "Izin"
	AttendanceAlpha AttendanceStatus = "Alpha"
)

// ParseAttendanceStatus maps s case-insensitively onto an attendance status.
// Anything unrecognised, including the empty string, becomes Alpha.
func ParseAttendanceStatus(s string) AttendanceStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hadir":
		return AttendanceHadir
	case "izin":
		return AttendanceIzin
	default:
		return AttendanceAlpha
	}
}

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

type Booking struct {
	ID                string    `json:"id"`
	EnrollmentID      string    `json:"enrollment_id"`
	ClassEnrollmentID string    `json:"class_enrollment_id"`
	Date              time.Time `json:"date"`
	TimeSlotID        string    `json:"timeslot_id"`
	TeacherID         string    `json:"teacher_id"`
	Status            Status    `json:"status"`
	IzinReason        *string   `json:"izin_reason,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// Join
	StudentID        string            `json:"student_id,omitempty"`
	StudentName      string            `json:"student_name,omitempty"`
	StudentPhone     string            `json:"student_phone,omitempty"`
	ProgramName      string            `json:"program_name,omitempty"`
	ClassName        string            `json:"class_name,omitempty"`
	TeacherName      string            `json:"teacher_name,omitempty"`
	TeacherPhone     string            `json:"teacher_phone,omitempty"`
	SlotName         string            `json:"timeslot_name,omitempty"`
	SlotStart        string            `json:"start_time,omitempty"`
	SlotEnd          string            `json:"end_time,omitempty"`
	AttendanceStatus *AttendanceStatus `json:"attendance_status,omitempty"`
}

type Attendance struct {
	ID        string           `json:"id"`
	BookingID string           `json:"booking_id"`
	TeacherID string           `json:"teacher_id"`
	Date      time.Time        `json:"date"`
	Status    AttendanceStatus `json:"status"`
	Notes     string           `json:"notes"`
	CreatedAt time.Time        `json:"created_at"`

	// Join
	TeacherName string `json:"teacher_name,omitempty"`
	SlotName    string `json:"timeslot_name,omitempty"`
}

// AttendanceRequest is a teacher's late attendance submission awaiting an admin.
type AttendanceRequest struct {
	ID              string           `json:"id"`
	BookingID       string           `json:"booking_id"`
	TeacherID       string           `json:"teacher_id"`
	Status          AttendanceStatus `json:"status"`
	Notes           string           `json:"notes"`
	Reason          string           `json:"reason"`
	ApprovalStatus  ApprovalStatus   `json:"approval_status"`
	ApprovedBy      *string          `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time       `json:"approved_at,omitempty"`
	RejectionReason *string          `json:"rejection_reason,omitempty"`
	AttendanceID    *string          `json:"attendance_id,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`

	// Join
	Date        time.Time `json:"date"`
	SlotName    string    `json:"timeslot_name,omitempty"`
	StudentName string    `json:"student_name,omitempty"`
	ClassName   string    `json:"class_name,omitempty"`
	TeacherName string    `json:"teacher_name,omitempty"`
}

// Tally counts attendance outcomes. Student izin bookings count as Izin.
type Tally struct {
	Hadir int `json:"hadir"`
	Izin  int `json:"izin"`
	Alpha int `json:"alpha"`
}

func (t *Tally) Add(status AttendanceStatus) {
	switch status {
	case AttendanceHadir:
		t.Hadir++
	case AttendanceIzin:
		t.Izin++
	default:
		t.Alpha++
	}
}
