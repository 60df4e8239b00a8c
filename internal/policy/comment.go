package policy

import "github.com/aokumura/issue-tracker-api/internal/models"

// CanComment permits any project member, including viewers, to comment.
// Deliberately more permissive than ticket edits.
func CanComment(role models.MemberRole) Decision {
	if role == RoleNone {
		return Forbidden("not a project member")
	}
	return Allow()
}

// CanDeleteComment permits the comment author and the project owner to
// soft-delete a comment. Project admins who are not the owner are NOT
// included: the owner_id-only rule is a deliberate policy decision, not
// an oversight.
func CanDeleteComment(actorID, authorID, projectOwnerID uint64) Decision {
	if actorID == authorID || actorID == projectOwnerID {
		return Allow()
	}
	return Forbidden("only the author or the project owner can delete this comment")
}
