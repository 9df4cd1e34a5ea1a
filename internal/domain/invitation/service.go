package invitation

import "context"

// InvitationService onboards students. Delivery happens before anything is
// persisted, so a failed WhatsApp send leaves no account behind.
type InvitationService interface {
	InviteStudent(ctx context.Context, req InviteStudentRequest) (*InviteResponse, error)

	// GetByToken retrieves invitation details by token (public endpoint)
	GetByToken(ctx context.Context, token string) (*InvitationDetailResponse, error)

	// Resend delivers the activation link of a not yet activated student again
	Resend(ctx context.Context, userID string) error
}
