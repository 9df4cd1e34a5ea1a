package jwt

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrWrongTokenType = errors.New("unexpected token type")

type Service interface {
	GenerateAccessToken(userID string, email string, role user.Role) (token string, expiresAt int64, err error)
	GenerateRefreshToken(userID string) (token string, expiresAt int64, err error)
	// ParseRefreshToken verifies signature, expiry and token type and returns
	// the user the token was issued to.
	ParseRefreshToken(token string) (userID string, err error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
}

type JWTService struct {
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	tokenAuth       *jwtauth.JWTAuth
	now             func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string, refreshTokenExpirationTime string) (Service, error) {
	accessTTL, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, err
	}
	refreshTTL, err := time.ParseDuration(refreshTokenExpirationTime)
	if err != nil {
		return nil, err
	}
	return &JWTService{
		accessTokenTTL:  accessTTL,
		refreshTokenTTL: refreshTTL,
		tokenAuth:       jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:             time.Now,
	}, nil
}

func (j *JWTService) GenerateAccessToken(userID string, email string, role user.Role) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenTTL).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"email":   email,
		"role":    string(role),
		"type":    TokenTypeAccess,
		"exp":     expiresAt,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(userID string) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.refreshTokenTTL).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"exp":     expiresAt,
		"type":    TokenTypeRefresh,
		// jti keeps two refresh tokens issued in the same second distinct
		"jti": j.now().Format(time.RFC3339Nano),
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) ParseRefreshToken(tokenString string) (string, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", err
	}

	claims, err := token.AsMap(context.Background())
	if err != nil {
		return "", err
	}
	if claims["type"] != TokenTypeRefresh {
		return "", ErrWrongTokenType
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", jwt.ErrInvalidJWT()
	}
	return userID, nil
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteStrictMode,
	}
}
