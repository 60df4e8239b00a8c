package models

import "time"

type MemberRole string

const (
	RoleAdmin     MemberRole = "admin"
	RoleDeveloper MemberRole = "developer"
	RoleViewer    MemberRole = "viewer"
)

// ProjectMember links a user to a project with a role. At most one row
// exists per (project, user); roles are assigned at enrollment and never
// updated afterwards.
type ProjectMember struct {
	ProjectID uint64     `gorm:"primarykey" json:"project_id"`
	UserID    uint64     `gorm:"primarykey" json:"user_id"`
	Role      MemberRole `gorm:"type:varchar(20);not null" json:"role"`
	JoinedAt  time.Time  `json:"joined_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
