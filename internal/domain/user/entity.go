package user

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"   // School administrator
	RoleTeacher Role = "teacher" // Teaches classes, records attendance
	RoleStudent Role = "student" // Enrolled in a program
	RoleVendor  Role = "vendor"  // Voucher partner, profile access only
)

var roles = []Role{RoleAdmin, RoleTeacher, RoleStudent, RoleVendor}

// ParseRole converts a stored or claimed role string into a Role.
func ParseRole(s string) (Role, error) {
	for _, r := range roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", ErrInvalidRole
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

type User struct {
	ID              string
	Name            string
	Email           string
	PhoneNumber     string
	PasswordHash    *string
	Role            Role
	ActivationToken *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsActivated reports whether the invited account has set its password.
func (u *User) IsActivated() bool {
	return u.ActivationToken == nil && u.PasswordHash != nil
}

func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}
