package jwt

import (
	"testing"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenClaims(t *testing.T) {
	svc, err := NewJWTService("secret", "15m", "24h")
	require.NoError(t, err)

	token, exp, err := svc.GenerateAccessToken("user-1", "a@school.test", user.RoleTeacher)
	require.NoError(t, err)
	assert.NotZero(t, exp)

	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	role, _ := parsed.Get("role")
	typ, _ := parsed.Get("type")
	assert.Equal(t, "teacher", role)
	assert.Equal(t, TokenTypeAccess, typ)

	_, err = svc.ParseRefreshToken(token)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc, err := NewJWTService("secret", "15m", "24h")
	require.NoError(t, err)

	token, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	userID, err := svc.ParseRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	other, err := NewJWTService("other", "15m", "24h")
	require.NoError(t, err)
	_, err = other.ParseRefreshToken(token)
	assert.Error(t, err)
}

func TestNewJWTServiceRejectsBadDuration(t *testing.T) {
	_, err := NewJWTService("secret", "soon", "24h")
	assert.Error(t, err)
}
