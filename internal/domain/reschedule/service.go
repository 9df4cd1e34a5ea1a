package reschedule

import "context"

type RescheduleService interface {
	Create(ctx context.Context, actor Actor, req CreateRescheduleRequest) (*Request, error)
	Approve(ctx context.Context, adminID, requestID string) (*Request, error)
	Reject(ctx context.Context, adminID, requestID, reason string) (*Request, error)
	List(ctx context.Context, filter Filter) ([]Request, error)
}
