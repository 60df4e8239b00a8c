package repository

import (
	"github.com/aokumura/issue-tracker-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// ProjectRepository defines the interface for project and membership data access
type ProjectRepository interface {
	// CreateWithOwnerMembership creates a project and enrolls its owner as
	// an admin member within a single transaction.
	CreateWithOwnerMembership(project *models.Project, member *models.ProjectMember) error

	// FindByID finds a project by ID
	FindByID(id uint64) (*models.Project, error)

	// ListByMember lists the memberships of a user with projects preloaded
	ListByMember(userID uint64) ([]models.ProjectMember, error)

	// MemberProjectIDs returns the IDs of all projects the user belongs to
	MemberProjectIDs(userID uint64) ([]uint64, error)

	// AddMember adds a member to a project
	AddMember(member *models.ProjectMember) error

	// FindMember finds a specific project member
	FindMember(projectID, userID uint64) (*models.ProjectMember, error)

	// ListMembers lists all members of a project
	ListMembers(projectID uint64) ([]models.ProjectMember, error)
}

// TicketRepository defines the interface for ticket data access.
// All read methods exclude archived tickets; only FindArchivedByID looks
// past the soft-delete scope, and only to support idempotent archiving.
type TicketRepository interface {
	// Create creates a new ticket
	Create(ticket *models.Ticket) error

	// FindByID finds a ticket by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Ticket, error)

	// FindArchivedByID finds a ticket that has already been archived
	FindArchivedByID(id uint64) (*models.Ticket, error)

	// List retrieves tickets with filtering and pagination
	List(filter TicketFilter) ([]models.Ticket, int64, error)

	// Update updates a ticket
	Update(ticket *models.Ticket) error

	// Archive soft deletes a ticket
	Archive(id uint64) error

	// CountByStatus returns per-status ticket counts for a project
	CountByStatus(projectID uint64) (map[models.TicketStatus]int64, error)
}

// TicketFilter holds filtering options for listing tickets
type TicketFilter struct {
	ProjectIDs []uint64
	Status     *models.TicketStatus
	Priority   *models.TicketPriority
	AssignedTo *uint64
	Query      string
	Page       int
	PageSize   int
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.Comment) error

	// FindByID finds a comment by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Comment, error)

	// FindArchivedByID finds a comment that has already been deleted
	FindArchivedByID(id uint64) (*models.Comment, error)

	// ListByTicket lists the visible comments of a ticket, oldest first
	ListByTicket(ticketID uint64) ([]models.Comment, error)

	// DeleteWithTombstone overwrites the content and soft deletes the
	// comment in one transaction.
	DeleteWithTombstone(id uint64, tombstone string) error
}

// AttachmentRepository defines the interface for attachment metadata access
type AttachmentRepository interface {
	// Create records an uploaded attachment
	Create(attachment *models.Attachment) error

	// ListByTicket lists the attachments of a ticket
	ListByTicket(ticketID uint64) ([]models.Attachment, error)
}
