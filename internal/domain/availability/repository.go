package availability

import (
	"context"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
)

type AvailabilityRepository interface {
	ReplaceSkills(ctx context.Context, teacherID string, masterClassIDs []string) error
	ListSkills(ctx context.Context, teacherID string) ([]catalog.MasterClass, error)
	ReplaceAvailability(ctx context.Context, teacherID string, entries []Availability) error
	ListByTeacher(ctx context.Context, teacherID string) ([]Availability, error)
	// ListCandidates returns the availability, scoped to masterClassID, of
	// every teacher whose skill set contains masterClassID.
	ListCandidates(ctx context.Context, masterClassID string) ([]Candidate, error)
}
