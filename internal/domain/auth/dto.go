package auth

import "github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/validator"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email must be a valid email address")
	}

	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	} else if len(r.Password) > 255 {
		errs.Add("password", "password must not exceed 255 characters")
	}

	return errs.Err()
}

// ActivateRequest completes an invited student account.
type ActivateRequest struct {
	Token           string `json:"-"`
	Name            string `json:"name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r *ActivateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Token) {
		errs.Add("token", "token is required")
	}

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 255 {
		errs.Add("name", "name must not exceed 255 characters")
	}

	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	} else if len(r.Password) < 8 {
		errs.Add("password", "password must be at least 8 characters long")
	} else if len(r.Password) > 255 {
		errs.Add("password", "password must not exceed 255 characters")
	}

	if r.ConfirmPassword != r.Password {
		errs.Add("confirm_password", "password and confirm_password do not match")
	}

	return errs.Err()
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r *ChangePasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CurrentPassword) {
		errs.Add("current_password", "current_password is required")
	}

	if validator.IsEmpty(r.NewPassword) {
		errs.Add("new_password", "new_password is required")
	} else if len(r.NewPassword) < 8 {
		errs.Add("new_password", "new_password must be at least 8 characters long")
	} else if len(r.NewPassword) > 255 {
		errs.Add("new_password", "new_password must not exceed 255 characters")
	}

	if r.ConfirmPassword != r.NewPassword {
		errs.Add("confirm_password", "new_password and confirm_password do not match")
	}

	return errs.Err()
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshTokenRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RefreshToken) {
		errs.Add("refresh_token", "refresh_token is required")
	}

	return errs.Err()
}

type SessionTrackingRequest struct {
	UserAgent string
	IPAddress string
}

type TokenResponse struct {
	AccessToken           string `json:"access_token"`
	AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}

type AccessTokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}

// ActivateResponse tells the client where the student continues after activation.
type ActivateResponse struct {
	TokenResponse
	EnrollmentID string `json:"enrollment_id,omitempty"`
	NextStep     string `json:"next_step"`
}
