package memorytest

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
)

type userRepository struct{ s *Store }

func (s *Store) Users() user.UserRepository { return userRepository{s} }

func (r userRepository) Create(_ context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.t.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return user.ErrEmailAlreadyRegistered
		}
	}
	u.ID = newID()
	u.CreatedAt = r.s.tick()
	u.UpdatedAt = u.CreatedAt
	r.s.t.users[u.ID] = *u
	return nil
}

func (r userRepository) GetByID(_ context.Context, id string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.t.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

func (r userRepository) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.t.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r userRepository) GetByActivationToken(_ context.Context, token string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.t.users {
		if u.ActivationToken != nil && *u.ActivationToken == token {
			return &u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r userRepository) GetByIDs(_ context.Context, ids []string) (map[string]user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make(map[string]user.User, len(ids))
	for _, id := range ids {
		if u, ok := r.s.t.users[id]; ok {
			result[id] = u
		}
	}
	return result, nil
}

func (r userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == user.ErrUserNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r userRepository) ListByRole(_ context.Context, role user.Role) ([]user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var users []user.User
	for _, u := range r.s.t.users {
		if u.Role == role {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

func (r userRepository) Activate(_ context.Context, id string, name string, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.t.users[id]
	if !ok || u.ActivationToken == nil {
		return user.ErrUserNotFound
	}
	u.Name = name
	u.PasswordHash = &passwordHash
	u.ActivationToken = nil
	u.UpdatedAt = r.s.tick()
	r.s.t.users[id] = u
	return nil
}

func (r userRepository) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.t.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PasswordHash = &passwordHash
	u.UpdatedAt = r.s.tick()
	r.s.t.users[id] = u
	return nil
}

type refreshTokenRepository struct{ s *Store }

func (s *Store) RefreshTokens() auth.RefreshTokenRepository { return refreshTokenRepository{s} }

func (r refreshTokenRepository) CreateRefreshToken(_ context.Context, userID string, token string, expiresAt int64, _ auth.SessionTrackingRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.t.refreshTokens[token] = refreshToken{userID: userID, expiresAt: time.Unix(expiresAt, 0)}
	return nil
}

func (r refreshTokenRepository) GetRefreshTokenOwner(_ context.Context, token string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rt, ok := r.s.t.refreshTokens[token]
	if !ok {
		return "", auth.ErrInvalidToken
	}
	if rt.revoked || !rt.expiresAt.After(time.Now()) {
		return "", auth.ErrRefreshTokenRevoked
	}
	return rt.userID, nil
}

func (r refreshTokenRepository) RevokeRefreshToken(_ context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if rt, ok := r.s.t.refreshTokens[token]; ok {
		rt.revoked = true
		r.s.t.refreshTokens[token] = rt
	}
	return nil
}

func (r refreshTokenRepository) RevokeUserRefreshTokens(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for token, rt := range r.s.t.refreshTokens {
		if rt.userID == userID {
			rt.revoked = true
			r.s.t.refreshTokens[token] = rt
		}
	}
	return nil
}
