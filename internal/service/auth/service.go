package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

const (
	NextStepSchedule  = "schedule"
	NextStepDashboard = "dashboard"
)

type AuthServiceImpl struct {
	tx database.Transactor
	user.UserRepository
	enrollment.EnrollmentRepository
	catalog.ProgramRepository
	jwt.Service
	auth.RefreshTokenRepository
}

func NewAuthService(
	tx database.Transactor,
	userRepository user.UserRepository,
	enrollmentRepository enrollment.EnrollmentRepository,
	programRepository catalog.ProgramRepository,
	jwtService jwt.Service,
	refreshTokenRepository auth.RefreshTokenRepository,
) auth.AuthService {
	return &AuthServiceImpl{
		tx:                     tx,
		UserRepository:         userRepository,
		EnrollmentRepository:   enrollmentRepository,
		ProgramRepository:      programRepository,
		Service:                jwtService,
		RefreshTokenRepository: refreshTokenRepository,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// issueTokens creates an access and refresh token pair and stores the refresh
// token. ctx should carry the caller's transaction.
func (a *AuthServiceImpl) issueTokens(ctx context.Context, u *user.User, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var tokenResponse auth.TokenResponse
	var err error

	tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	err = a.RefreshTokenRepository.CreateRefreshToken(ctx, u.ID, tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, session)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to save refresh token to database: %w", err)
	}
	return tokenResponse, nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest, sessionTrackReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := loginReq.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, loginReq.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if userData.ActivationToken != nil {
		return auth.TokenResponse{}, auth.ErrAccountNotActivated
	}
	if userData.PasswordHash == nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*userData.PasswordHash), []byte(loginReq.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	var tokenResponse auth.TokenResponse
	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		tokenResponse, err = a.issueTokens(txCtx, userData, sessionTrackReq)
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return tokenResponse, nil
}

// Activate implements auth.AuthService. A student whose program has only
// batch classes has nothing to schedule and becomes active straight away.
func (a *AuthServiceImpl) Activate(ctx context.Context, req auth.ActivateRequest, sessionTrackReq auth.SessionTrackingRequest) (auth.ActivateResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.ActivateResponse{}, err
	}

	userData, err := a.UserRepository.GetByActivationToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.ActivateResponse{}, auth.ErrActivationNotFound
		}
		return auth.ActivateResponse{}, fmt.Errorf("failed to get user by activation token: %w", err)
	}

	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		return auth.ActivateResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	response := auth.ActivateResponse{NextStep: NextStepDashboard}
	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := a.UserRepository.Activate(txCtx, userData.ID, req.Name, passwordHash); err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return auth.ErrActivationNotFound
			}
			return fmt.Errorf("failed to activate user: %w", err)
		}
		userData.Name = req.Name

		if userData.IsStudent() {
			if err := a.resolveNextStep(txCtx, userData.ID, &response); err != nil {
				return err
			}
		}

		response.TokenResponse, err = a.issueTokens(txCtx, userData, sessionTrackReq)
		return err
	})
	if err != nil {
		return auth.ActivateResponse{}, err
	}

	slog.Info("Account activated", "user_id", userData.ID, "next_step", response.NextStep)
	return response, nil
}

func (a *AuthServiceImpl) resolveNextStep(ctx context.Context, studentID string, response *auth.ActivateResponse) error {
	pending, err := a.EnrollmentRepository.GetByStudentAndStatus(ctx, studentID, enrollment.StatusPendingSchedule)
	if err != nil {
		if errors.Is(err, enrollment.ErrEnrollmentNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get pending enrollment: %w", err)
	}
	response.EnrollmentID = pending.ID

	program, err := a.ProgramRepository.GetByID(ctx, pending.ProgramID)
	if err != nil {
		return fmt.Errorf("failed to get program: %w", err)
	}
	if !catalog.AllBatch(program.Classes) {
		response.NextStep = NextStepSchedule
		return nil
	}

	if err := a.EnrollmentRepository.UpdateStatus(ctx, pending.ID, enrollment.StatusActive); err != nil {
		return fmt.Errorf("failed to activate batch enrollment: %w", err)
	}
	return nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	userID, err := a.Service.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	ownerID, err := a.RefreshTokenRepository.GetRefreshTokenOwner(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, err
	}
	if ownerID != userID {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	var response auth.AccessTokenResponse
	response.AccessToken, response.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(userData.ID, userData.Email, userData.Role)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	return response, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	if token == "" {
		return auth.ErrInvalidToken
	}
	if err := a.RefreshTokenRepository.RevokeRefreshToken(ctx, token); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// ChangePassword implements auth.AuthService. Every refresh token of the user
// is revoked so other sessions must sign in again.
func (a *AuthServiceImpl) ChangePassword(ctx context.Context, userID string, req auth.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if userData.PasswordHash == nil {
		return auth.ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*userData.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return auth.ErrWrongPassword
	}

	hashed, err := hashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := a.UserRepository.UpdatePassword(txCtx, userID, hashed); err != nil {
			return err
		}
		return a.RefreshTokenRepository.RevokeUserRefreshTokens(txCtx, userID)
	})
	if err != nil {
		return err
	}

	slog.Info("Password changed", "user_id", userID)
	return nil
}
