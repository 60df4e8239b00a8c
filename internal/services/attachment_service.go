package services

import (
	"errors"
	"fmt"
	"io"

	"github.com/aokumura/issue-tracker-api/internal/models"
	"github.com/aokumura/issue-tracker-api/internal/policy"
	"github.com/aokumura/issue-tracker-api/internal/repository"
	"github.com/aokumura/issue-tracker-api/internal/storage"
	"gorm.io/gorm"
)

var ErrFilenameRequired = errors.New("filename is required")

// AttachmentService handles ticket file attachments
type AttachmentService struct {
	attachmentRepo repository.AttachmentRepository
	ticketRepo     repository.TicketRepository
	projectRepo    repository.ProjectRepository
	store          storage.Store
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(attachmentRepo repository.AttachmentRepository, ticketRepo repository.TicketRepository, projectRepo repository.ProjectRepository, store storage.Store) *AttachmentService {
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		ticketRepo:     ticketRepo,
		projectRepo:    projectRepo,
		store:          store,
	}
}

// Upload stores a file and records it against a ticket. Viewers may not
// attach files.
func (s *AttachmentService) Upload(ticketID, actorID uint64, filename string, r io.Reader) (*models.Attachment, error) {
	if filename == "" {
		return nil, ErrFilenameRequired
	}

	ticket, err := s.ticketRepo.FindByID(ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}

	role, err := s.resolveRole(ticket.ProjectID, actorID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanAttachFiles(role).Err(); err != nil {
		return nil, err
	}

	path, err := s.store.Save(filename, r)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	attachment := &models.Attachment{
		Filename:   filename,
		FilePath:   path,
		TicketID:   ticketID,
		UploadedBy: actorID,
	}

	if err := s.attachmentRepo.Create(attachment); err != nil {
		return nil, fmt.Errorf("failed to record attachment: %w", err)
	}

	return attachment, nil
}

// List returns the attachments of a ticket for a member caller.
func (s *AttachmentService) List(ticketID, actorID uint64) ([]models.Attachment, error) {
	ticket, err := s.ticketRepo.FindByID(ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}

	role, err := s.resolveRole(ticket.ProjectID, actorID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanViewTickets(role).Err(); err != nil {
		return nil, err
	}

	attachments, err := s.attachmentRepo.ListByTicket(ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}

	return attachments, nil
}

func (s *AttachmentService) resolveRole(projectID, userID uint64) (models.MemberRole, error) {
	member, err := s.projectRepo.FindMember(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return policy.RoleNone, nil
		}
		return policy.RoleNone, fmt.Errorf("failed to resolve membership: %w", err)
	}
	return policy.ResolveRole(member), nil
}
