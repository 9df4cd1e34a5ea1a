package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountNotActivated = errors.New("account has not been activated")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrTokenExpired        = errors.New("token has expired")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
	ErrActivationNotFound  = errors.New("activation link is invalid or already used")
	ErrWrongPassword       = errors.New("current password is incorrect")
)
