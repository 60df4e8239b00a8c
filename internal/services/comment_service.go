package services

import (
	"errors"
	"fmt"

	"github.com/aokumura/issue-tracker-api/internal/constants"
	"github.com/aokumura/issue-tracker-api/internal/models"
	"github.com/aokumura/issue-tracker-api/internal/policy"
	"github.com/aokumura/issue-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrContentRequired = errors.New("content is required")
)

// CommentService handles ticket comment business logic
type CommentService struct {
	commentRepo repository.CommentRepository
	ticketRepo  repository.TicketRepository
	projectRepo repository.ProjectRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repository.CommentRepository, ticketRepo repository.TicketRepository, projectRepo repository.ProjectRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		ticketRepo:  ticketRepo,
		projectRepo: projectRepo,
	}
}

// ListComments returns the visible comments of a ticket in creation order.
// Deleted comments are excluded entirely, not shown as tombstones.
func (s *CommentService) ListComments(ticketID, actorID uint64) ([]models.Comment, error) {
	ticket, err := s.findTicket(ticketID)
	if err != nil {
		return nil, err
	}

	role, err := s.resolveRole(ticket.ProjectID, actorID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanViewTickets(role).Err(); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByTicket(ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}

// CreateComment adds a comment to a ticket. Any member may comment,
// viewers included.
func (s *CommentService) CreateComment(ticketID, actorID uint64, content string) (*models.Comment, error) {
	if content == "" {
		return nil, ErrContentRequired
	}

	ticket, err := s.findTicket(ticketID)
	if err != nil {
		return nil, err
	}

	role, err := s.resolveRole(ticket.ProjectID, actorID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanComment(role).Err(); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content:  content,
		TicketID: ticketID,
		UserID:   actorID,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return s.commentRepo.FindByID(comment.ID, "Author")
}

// DeleteComment tombstones and soft deletes a comment. Only the author or
// the project owner may delete; deleting an already deleted comment is an
// idempotent no-op for an authorized caller.
func (s *CommentService) DeleteComment(commentID, actorID uint64) error {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to find comment: %w", err)
		}

		archived, archErr := s.commentRepo.FindArchivedByID(commentID)
		if archErr != nil {
			return ErrCommentNotFound
		}

		// Already deleted: authorize, then do nothing.
		return s.authorizeDelete(archived, actorID)
	}

	if err := s.authorizeDelete(comment, actorID); err != nil {
		return err
	}

	if err := s.commentRepo.DeleteWithTombstone(comment.ID, constants.CommentTombstone); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return nil
}

func (s *CommentService) authorizeDelete(comment *models.Comment, actorID uint64) error {
	ticket, err := s.findTicket(comment.TicketID)
	if err != nil {
		return err
	}

	project, err := s.projectRepo.FindByID(ticket.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	return policy.CanDeleteComment(actorID, comment.UserID, project.OwnerID).Err()
}

func (s *CommentService) findTicket(ticketID uint64) (*models.Ticket, error) {
	ticket, err := s.ticketRepo.FindByID(ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}
	return ticket, nil
}

func (s *CommentService) resolveRole(projectID, userID uint64) (models.MemberRole, error) {
	member, err := s.projectRepo.FindMember(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return policy.RoleNone, nil
		}
		return policy.RoleNone, fmt.Errorf("failed to resolve membership: %w", err)
	}
	return policy.ResolveRole(member), nil
}
