package reschedule

import "context"

type Filter struct {
	Status      *Status
	RequestedBy string
}

type RescheduleRepository interface {
	// Create fails with ErrRequestPending when the booking already has a pending request.
	Create(ctx context.Context, r *Request) error
	GetByID(ctx context.Context, id string) (*Request, error)
	List(ctx context.Context, filter Filter) ([]Request, error)
	// Resolve persists the decision of a pending request. Fails with
	// ErrRequestAlreadyProcessed when it is no longer pending.
	Resolve(ctx context.Context, r *Request) error
}
