package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"admin", "teacher", "student", "vendor"} {
		r, err := ParseRole(s)
		assert.NoError(t, err)
		assert.Equal(t, s, string(r))
		assert.True(t, r.Valid())
	}

	_, err := ParseRole("owner")
	assert.ErrorIs(t, err, ErrInvalidRole)
	assert.False(t, Role("Admin").Valid())
}

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleTeacher, PermissionAttendanceSubmit))
	assert.False(t, HasPermission(RoleStudent, PermissionAttendanceSubmit))

	assert.True(t, HasPermission(RoleStudent, PermissionBookingIzin))
	assert.False(t, HasPermission(RoleTeacher, PermissionBookingIzin))

	assert.True(t, HasPermission(RoleAdmin, PermissionRequestApprove))
	assert.False(t, HasPermission(RoleTeacher, PermissionRequestApprove))

	assert.True(t, HasPermission(RoleVendor, PermissionViewOwnProfile))
	assert.False(t, HasPermission(RoleVendor, PermissionRescheduleRequest))
	assert.False(t, HasPermission(Role("ghost"), PermissionViewOwnProfile))
}

func TestEveryRoleHasPermissions(t *testing.T) {
	for _, r := range roles {
		assert.NotEmpty(t, RolePermissions[r], r)
	}
}
