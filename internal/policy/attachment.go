package policy

import "github.com/aokumura/issue-tracker-api/internal/models"

// CanAttachFiles permits non-viewer members to upload attachments to a
// ticket; the upload itself is handled by an external storage collaborator.
func CanAttachFiles(role models.MemberRole) Decision {
	switch role {
	case models.RoleDeveloper, models.RoleAdmin:
		return Allow()
	case models.RoleViewer:
		return Forbidden("viewers cannot upload attachments")
	default:
		return Forbidden("not a project member")
	}
}
