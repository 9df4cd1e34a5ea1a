package portfolio

import "time"

type Portfolio struct {
	ID                string    `json:"id"`
	ClassEnrollmentID string    `json:"class_enrollment_id"`
	SyllabusID        *string   `json:"syllabus_id,omitempty"`
	Title             string    `json:"title"`
	FileID            string    `json:"file_id"`
	FileURL           string    `json:"file_url"`
	FilePath          string    `json:"-"`
	CreatedAt         time.Time `json:"created_at"`

	// Join
	SyllabusTopic *string `json:"syllabus_topic,omitempty"`
}
