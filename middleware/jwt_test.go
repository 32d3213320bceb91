package middleware

import (
	"testing"
	"time"

	"pbl-review/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerifyToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := IssueToken("uuid-1", "alice", constants.RoleMentor,
		[]string{constants.PermMentorFull}, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := VerifyJWT(token)
	require.NoError(t, err)

	assert.Equal(t, "uuid-1", claims["uuid"])
	assert.Equal(t, "alice", claims["username"])
	assert.Equal(t, constants.RoleMentor, claims["role"])

	perms, ok := claims["permissions"].([]interface{})
	require.True(t, ok)
	assert.Contains(t, perms, constants.PermMentorFull)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-a")
	token, err := IssueToken("uuid-1", "alice", constants.RoleAdmin,
		[]string{constants.PermAdminFull}, time.Hour)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "secret-b")
	_, err = VerifyJWT(token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := IssueToken("uuid-1", "alice", constants.RoleStudent,
		[]string{constants.PermStudentFull}, -time.Minute)
	require.NoError(t, err)

	_, err = VerifyJWT(token)
	assert.Error(t, err)
}

func TestHasPermission(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := IssueToken("uuid-1", "bob", constants.RoleStudent,
		[]string{constants.PermStudentFull}, time.Hour)
	require.NoError(t, err)

	_, ok := hasPermission(token, []string{constants.PermStudentFull})
	assert.True(t, ok)

	_, ok = hasPermission(token, []string{constants.PermAdminFull})
	assert.False(t, ok)

	// "any" only requires a valid token
	_, ok = hasPermission(token, []string{constants.PermAny})
	assert.True(t, ok)

	_, ok = hasPermission("not-a-token", []string{constants.PermAny})
	assert.False(t, ok)
}
