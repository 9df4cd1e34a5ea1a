package availability

import "context"

type AvailabilityService interface {
	// ListOpenSlots returns the slot options still open for a class of an
	// enrollment. An empty result is not an error.
	ListOpenSlots(ctx context.Context, enrollmentID, classEnrollmentID string) ([]SlotOption, error)
	SetSkills(ctx context.Context, req SetSkillsRequest) error
	SetAvailability(ctx context.Context, req SetAvailabilityRequest) error
	GetTeacherAvailability(ctx context.Context, teacherID string) (*TeacherAvailabilityResponse, error)
}
