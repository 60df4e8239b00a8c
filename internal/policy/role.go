package policy

import "github.com/aokumura/issue-tracker-api/internal/models"

// RoleNone marks a caller with no membership in the project. It is distinct
// from every named role and always means "no access", never a default to
// the most restrictive role.
const RoleNone models.MemberRole = ""

// ResolveRole maps a membership row to the caller's effective role within
// the project. A nil row (no membership found) resolves to RoleNone, as
// does a row carrying a role outside the defined set.
func ResolveRole(member *models.ProjectMember) models.MemberRole {
	if member == nil {
		return RoleNone
	}
	switch member.Role {
	case models.RoleAdmin, models.RoleDeveloper, models.RoleViewer:
		return member.Role
	default:
		return RoleNone
	}
}

// ValidMemberRole reports whether role names one of the assignable
// membership roles.
func ValidMemberRole(role models.MemberRole) bool {
	switch role {
	case models.RoleAdmin, models.RoleDeveloper, models.RoleViewer:
		return true
	default:
		return false
	}
}
