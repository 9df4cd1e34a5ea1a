package postgresql_test

import (
	"testing"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// ===== USER REPOSITORY TESTS =====

func TestUserRepository_Create_Success(t *testing.T) {
	ctx := setupTestData(t)
	userRepo := postgresql.NewUserRepository(testDB)

	token := "activation-token"
	newUser := user.User{
		Email:           "newstudent@example.com",
		PhoneNumber:     "628111222333",
		Role:            user.RoleStudent,
		ActivationToken: &token,
	}

	err := userRepo.Create(ctx, &newUser)
	require.NoError(t, err)
	assert.NotEmpty(t, newUser.ID)
	assert.False(t, newUser.CreatedAt.IsZero())

	found, err := userRepo.GetByActivationToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, newUser.ID, found.ID)
	assert.False(t, found.IsActivated())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	ctx := setupTestData(t)
	createTestUser(t, ctx, "dup@example.com", user.RoleTeacher)

	dup := user.User{Email: "dup@example.com", Role: user.RoleStudent}
	err := postgresql.NewUserRepository(testDB).Create(ctx, &dup)
	assert.ErrorIs(t, err, user.ErrEmailAlreadyRegistered)
}

func TestUserRepository_GetByEmail_CaseInsensitive(t *testing.T) {
	ctx := setupTestData(t)
	created := createTestUser(t, ctx, "sari@example.com", user.RoleStudent)

	found, err := postgresql.NewUserRepository(testDB).GetByEmail(ctx, "SARI@Example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	ctx := setupTestData(t)

	_, err := postgresql.NewUserRepository(testDB).GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_Activate(t *testing.T) {
	ctx := setupTestData(t)
	userRepo := postgresql.NewUserRepository(testDB)

	token := "tok-1"
	invited := user.User{Email: "invited@example.com", Role: user.RoleStudent, ActivationToken: &token}
	require.NoError(t, userRepo.Create(ctx, &invited))

	hash, err := bcrypt.GenerateFromPassword([]byte("securepass"), bcrypt.DefaultCost)
	require.NoError(t, err)

	require.NoError(t, userRepo.Activate(ctx, invited.ID, "Sari", string(hash)))

	activated, err := userRepo.GetByID(ctx, invited.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sari", activated.Name)
	assert.True(t, activated.IsActivated())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*activated.PasswordHash), []byte("securepass")))

	// The token is single use.
	err = userRepo.Activate(ctx, invited.ID, "Sari", string(hash))
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_ListByRoleAndGetByIDs(t *testing.T) {
	ctx := setupTestData(t)
	budi := createTestUser(t, ctx, "budi@example.com", user.RoleTeacher)
	ani := createTestUser(t, ctx, "ani@example.com", user.RoleTeacher)
	createTestUser(t, ctx, "sari@example.com", user.RoleStudent)

	userRepo := postgresql.NewUserRepository(testDB)

	teachers, err := userRepo.ListByRole(ctx, user.RoleTeacher)
	require.NoError(t, err)
	assert.Len(t, teachers, 2)

	byID, err := userRepo.GetByIDs(ctx, []string{budi.ID, ani.ID})
	require.NoError(t, err)
	assert.Len(t, byID, 2)
	assert.Equal(t, "budi@example.com", byID[budi.ID].Email)

	empty, err := userRepo.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
