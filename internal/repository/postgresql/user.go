package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

const userColumns = `id, name, email, phone_number, password_hash, role, activation_token, created_at, updated_at`

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PhoneNumber,
		&u.PasswordHash,
		&u.Role,
		&u.ActivationToken,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, u *user.User) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (name, email, phone_number, password_hash, role, activation_token)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		u.Name, u.Email, u.PhoneNumber, u.PasswordHash, u.Role, u.ActivationToken,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "users_email_key") {
			return user.ErrEmailAlreadyRegistered
		}
		return err
	}
	return nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (*user.User, error) {
	q := GetQuerier(ctx, r.db)
	return scanUser(q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	q := GetQuerier(ctx, r.db)
	return scanUser(q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
}

// GetByActivationToken implements user.UserRepository.
func (r *userRepositoryImpl) GetByActivationToken(ctx context.Context, token string) (*user.User, error) {
	q := GetQuerier(ctx, r.db)
	return scanUser(q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE activation_token = $1`, token))
}

// GetByIDs implements user.UserRepository.
func (r *userRepositoryImpl) GetByIDs(ctx context.Context, ids []string) (map[string]user.User, error) {
	result := make(map[string]user.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result[u.ID] = *u
	}
	return result, rows.Err()
}

// ExistsByEmail implements user.UserRepository.
func (r *userRepositoryImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, email).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// ListByRole implements user.UserRepository.
func (r *userRepositoryImpl) ListByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY name`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Activate implements user.UserRepository.
func (r *userRepositoryImpl) Activate(ctx context.Context, id string, name string, passwordHash string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET name = $2, password_hash = $3, activation_token = NULL, updated_at = NOW()
		WHERE id = $1 AND activation_token IS NOT NULL
	`
	commandTag, err := q.Exec(ctx, query, id, name, passwordHash)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *userRepositoryImpl) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return user.ErrUserNotFound
	}
	return nil
}
