package user

import "context"

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByActivationToken(ctx context.Context, token string) (*User, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListByRole(ctx context.Context, role Role) ([]User, error)
	Activate(ctx context.Context, id string, name string, passwordHash string) error
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
}
