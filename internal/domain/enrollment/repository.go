package enrollment

import (
	"context"
	"time"
)

type EnrollmentFilter struct {
	StudentID string
	Status    *Status
}

type EnrollmentRepository interface {
	Create(ctx context.Context, e *Enrollment) error
	GetByID(ctx context.Context, id string) (*Enrollment, error)
	// GetByStudentAndStatus returns the student's most recent enrollment in status.
	GetByStudentAndStatus(ctx context.Context, studentID string, status Status) (*Enrollment, error)
	List(ctx context.Context, filter EnrollmentFilter) ([]Enrollment, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	// SetFirstClassDate fails with ErrFirstClassDateAlreadySet when a date is present.
	SetFirstClassDate(ctx context.Context, id string, date time.Time) error
	// CompleteIfFinished marks an active enrollment completed once none of its
	// classes is still active.
	CompleteIfFinished(ctx context.Context, id string) (bool, error)
}

type ClassEnrollmentRepository interface {
	Create(ctx context.Context, c *ClassEnrollment) error
	GetByID(ctx context.Context, id string) (*ClassEnrollment, error)
	ListByEnrollment(ctx context.Context, enrollmentID string) ([]ClassEnrollment, error)
	// ConsumeSession decrements sessions_remaining and completes the class when
	// it reaches zero. Fails with ErrNoSessionsRemaining at zero.
	ConsumeSession(ctx context.Context, id string) (*ClassEnrollment, error)
	// ConsumeIzin increments izin_used. Fails with ErrIzinQuotaExhausted when
	// izin_used already equals the class max_izin.
	ConsumeIzin(ctx context.Context, id string) (*ClassEnrollment, error)
	Update(ctx context.Context, id string, sessionsRemaining int, status ClassStatus) error
}

type WeeklyScheduleRepository interface {
	// Create fails with ErrScheduleSlotTaken when the enrollment already holds
	// a pattern on the same weekday and slot.
	Create(ctx context.Context, s *WeeklySchedule) error
	GetByID(ctx context.Context, id string) (*WeeklySchedule, error)
	Delete(ctx context.Context, id string) error
	ListByEnrollment(ctx context.Context, enrollmentID string) ([]WeeklySchedule, error)
	// ListActive returns patterns of active enrollments whose class is still
	// active. An empty teacherIDs returns every teacher's patterns.
	ListActive(ctx context.Context, teacherIDs []string) ([]WeeklySchedule, error)
}
