package auth

import (
	"context"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)
	Activate(ctx context.Context, req ActivateRequest, session SessionTrackingRequest) (ActivateResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error
}

// RefreshTokenRepository persists issued refresh tokens by hash.
type RefreshTokenRepository interface {
	CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, session SessionTrackingRequest) error
	GetRefreshTokenOwner(ctx context.Context, token string) (string, error)
	RevokeRefreshToken(ctx context.Context, token string) error
	RevokeUserRefreshTokens(ctx context.Context, userID string) error
}
