package policy

import "github.com/aokumura/issue-tracker-api/internal/models"

// CanAddMember permits only project admins to enroll members.
func CanAddMember(actingRole models.MemberRole) Decision {
	switch actingRole {
	case models.RoleAdmin:
		return Allow()
	case RoleNone:
		return Forbidden("not a project member")
	default:
		return Forbidden("only admins can manage members")
	}
}

// CanListMembers permits any project member to list the roster.
func CanListMembers(role models.MemberRole) Decision {
	if role == RoleNone {
		return Forbidden("not a project member")
	}
	return Allow()
}

// OwnRole answers a caller asking about their own membership. A
// non-member gets NotFound rather than Forbidden: the caller is querying
// themselves, not another entity.
func OwnRole(role models.MemberRole) Decision {
	if role == RoleNone {
		return NotFound("not a member of this project")
	}
	return Allow()
}
