package reschedule

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Request asks to move a booked session to another date, slot or teacher.
// The original session is snapshotted when the request is made.
type Request struct {
	ID                 string     `json:"id"`
	BookingID          string     `json:"booking_id"`
	RequestedBy        string     `json:"requested_by"`
	OriginalDate       time.Time  `json:"original_date"`
	OriginalTimeSlotID string     `json:"original_timeslot_id"`
	OriginalTeacherID  string     `json:"original_teacher_id"`
	NewDate            time.Time  `json:"new_date"`
	NewTimeSlotID      string     `json:"new_timeslot_id"`
	NewTeacherID       string     `json:"new_teacher_id"`
	Reason             string     `json:"reason"`
	Status             Status     `json:"status"`
	ApprovedBy         *string    `json:"approved_by,omitempty"`
	ApprovedAt         *time.Time `json:"approved_at,omitempty"`
	RejectionReason    *string    `json:"rejection_reason,omitempty"`
	NewBookingID       *string    `json:"new_booking_id,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`

	// Join
	StudentName         string `json:"student_name,omitempty"`
	ClassName           string `json:"class_name,omitempty"`
	RequestedByName     string `json:"requested_by_name,omitempty"`
	OriginalSlotName    string `json:"original_timeslot_name,omitempty"`
	NewSlotName         string `json:"new_timeslot_name,omitempty"`
	OriginalTeacherName string `json:"original_teacher_name,omitempty"`
	NewTeacherName      string `json:"new_teacher_name,omitempty"`
}
