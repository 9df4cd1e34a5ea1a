package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Activate(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	RefreshToken(w http.ResponseWriter, r *http.Request)
	ChangePassword(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	jwtService  jwt.Service
	authService auth.AuthService
}

func NewAuthHandler(jwtService jwt.Service, authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{
		jwtService:  jwtService,
		authService: authService,
	}
}

func sessionOf(r *http.Request) auth.SessionTrackingRequest {
	return auth.SessionTrackingRequest{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		slog.Error("Login decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := loginReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	tokenResponse, err := a.authService.Login(r.Context(), loginReq, sessionOf(r))
	if err != nil {
		slog.Error("Login service error", "error", err)
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, a.jwtService.RefreshTokenCookie(tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn))
	slog.Info("User logged in successfully")
	response.Created(w, "User logged in successfully", tokenResponse)
}

// Activate implements AuthHandler. The invitation token comes from the path.
func (a *AuthHandlerImpl) Activate(w http.ResponseWriter, r *http.Request) {
	var activateReq auth.ActivateRequest

	if err := json.NewDecoder(r.Body).Decode(&activateReq); err != nil {
		slog.Error("Activate decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	activateReq.Token = chi.URLParam(r, "token")

	if err := activateReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := a.authService.Activate(r.Context(), activateReq, sessionOf(r))
	if err != nil {
		slog.Error("Activate service error", "error", err)
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, a.jwtService.RefreshTokenCookie(result.RefreshToken, result.RefreshTokenExpiresIn))
	slog.Info("Student account activated", "enrollment_id", result.EnrollmentID)
	response.Created(w, "Account activated successfully", result)
}

// Logout implements AuthHandler.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	refreshTokenCookie, err := r.Cookie("refresh_token")
	if err != nil || refreshTokenCookie.Value == "" {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	if err := a.authService.Logout(r.Context(), refreshTokenCookie.Value); err != nil {
		response.HandleError(w, err)
		return
	}

	a.clearRefreshCookie(w)
	response.SuccessWithMessage(w, "User logged out successfully", nil)
}

func (a *AuthHandlerImpl) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Path:     "/api/v1/auth",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// RefreshToken implements AuthHandler. The cookie wins over the body.
func (a *AuthHandlerImpl) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var refreshTokenReq auth.RefreshTokenRequest

	if refreshTokenCookie, err := r.Cookie("refresh_token"); err == nil && refreshTokenCookie.Value != "" {
		refreshTokenReq.RefreshToken = refreshTokenCookie.Value
	} else if err := json.NewDecoder(r.Body).Decode(&refreshTokenReq); err != nil {
		slog.Error("Refresh Token decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := refreshTokenReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	tokenResponse, err := a.authService.RefreshToken(r.Context(), refreshTokenReq)
	if err != nil {
		slog.Error("Refresh Token service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, tokenResponse)
}

// ChangePassword implements AuthHandler.
func (a *AuthHandlerImpl) ChangePassword(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req auth.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ChangePassword decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := a.authService.ChangePassword(r.Context(), p.UserID, req); err != nil {
		response.HandleError(w, err)
		return
	}

	a.clearRefreshCookie(w)
	response.SuccessWithMessage(w, "Password changed, please log in again", nil)
}
