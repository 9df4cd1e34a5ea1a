package portfolio

import "context"

type PortfolioService interface {
	Upload(ctx context.Context, studentID string, req UploadRequest) (*Portfolio, error)
	// ListForStudent checks that the class belongs to studentID before listing.
	ListForStudent(ctx context.Context, studentID, classEnrollmentID string) ([]Portfolio, error)
	List(ctx context.Context, classEnrollmentID string) ([]Portfolio, error)
	// DeleteForStudent checks that the portfolio belongs to studentID before deleting.
	DeleteForStudent(ctx context.Context, studentID, portfolioID string) error
	Delete(ctx context.Context, portfolioID string) error
}
