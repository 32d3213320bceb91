package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionsForRole(t *testing.T) {
	assert.Equal(t, []string{PermAdminFull}, PermissionsForRole(RoleAdmin))
	assert.Equal(t, []string{PermMentorFull}, PermissionsForRole(RoleMentor))
	assert.Equal(t, []string{PermStudentFull}, PermissionsForRole(RoleStudent))
	assert.Equal(t, []string{PermExternalFull}, PermissionsForRole(RoleExternal))
	assert.Empty(t, PermissionsForRole("unknown"))
}
