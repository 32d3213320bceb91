package constants

// Role permissions carried in JWT claims
const (
	// Admin permissions
	PermAdminFull = "pbl-review.admin.full-permit"

	// Faculty permissions
	PermMentorFull = "pbl-review.mentor.full-permit"

	// Student permissions
	PermStudentFull = "pbl-review.student.full-permit"

	// External evaluator permissions
	PermExternalFull = "pbl-review.external.full-permit"

	// Special permissions
	PermAny = "any"
)

// Roles stored on user rows
const (
	RoleAdmin    = "admin"
	RoleMentor   = "mentor"
	RoleStudent  = "student"
	RoleExternal = "external"
)

// Permission groups for convenience
var (
	StaffPermissions = []string{
		PermAdminFull,
		PermMentorFull,
	}

	EvaluatorPermissions = []string{
		PermAdminFull,
		PermMentorFull,
		PermExternalFull,
	}
)

// PermissionsForRole returns the permission set granted to a role at login.
func PermissionsForRole(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{PermAdminFull}
	case RoleMentor:
		return []string{PermMentorFull}
	case RoleStudent:
		return []string{PermStudentFull}
	case RoleExternal:
		return []string{PermExternalFull}
	default:
		return []string{}
	}
}
