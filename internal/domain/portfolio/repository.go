package portfolio

import "context"

type PortfolioRepository interface {
	Create(ctx context.Context, p *Portfolio) error
	GetByID(ctx context.Context, id string) (*Portfolio, error)
	ListByClassEnrollment(ctx context.Context, classEnrollmentID string) ([]Portfolio, error)
	Delete(ctx context.Context, id string) error
}
