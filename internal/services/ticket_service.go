package services

import (
	"errors"
	"fmt"

	"github.com/aokumura/issue-tracker-api/internal/models"
	"github.com/aokumura/issue-tracker-api/internal/policy"
	"github.com/aokumura/issue-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrTitleRequired     = errors.New("title is required")
	ErrTitleEmpty        = errors.New("title cannot be empty")
	ErrAssigneeNotMember = errors.New("assignee is not a member of the project")
)

// TicketService handles ticket business logic. Every mutating or listing
// operation resolves the caller's role first and passes it, together with
// the ticket snapshot read in the same transaction, to the policy engine.
type TicketService struct {
	ticketRepo  repository.TicketRepository
	projectRepo repository.ProjectRepository
}

// NewTicketService creates a new TicketService
func NewTicketService(ticketRepo repository.TicketRepository, projectRepo repository.ProjectRepository) *TicketService {
	return &TicketService{
		ticketRepo:  ticketRepo,
		projectRepo: projectRepo,
	}
}

// CreateTicketInput represents input for creating a ticket
type CreateTicketInput struct {
	Title       string
	Description string
	Type        models.TicketType
	Priority    models.TicketPriority
	ProjectID   uint64
	AssignedTo  *uint64
	ActorID     uint64
}

// CreateTicket creates a ticket in a project. Viewers and non-members are
// denied; an explicit assignee must be a member of the project.
func (s *TicketService) CreateTicket(input CreateTicketInput) (*models.Ticket, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	if _, err := s.projectRepo.FindByID(input.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	role, err := s.resolveRole(input.ProjectID, input.ActorID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanCreateTicket(role).Err(); err != nil {
		return nil, err
	}

	if input.AssignedTo != nil {
		if err := s.ensureMember(input.ProjectID, *input.AssignedTo); err != nil {
			return nil, err
		}
	}

	if input.Type == "" {
		input.Type = models.TypeTask
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}

	ticket := &models.Ticket{
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		Status:      models.StatusTodo,
		Priority:    input.Priority,
		ProjectID:   input.ProjectID,
		AssignedTo:  input.AssignedTo,
	}

	if err := s.ticketRepo.Create(ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	return s.ticketRepo.FindByID(ticket.ID, "Assignee")
}

// ListTicketsInput represents filters for listing tickets in a project
type ListTicketsInput struct {
	ProjectID uint64
	ActorID   uint64
	Status    *models.TicketStatus
	Priority  *models.TicketPriority
	Page      int
	PageSize  int
}

// ListTickets returns the visible tickets of a project. Archived tickets
// never appear, for any role.
func (s *TicketService) ListTickets(input ListTicketsInput) ([]models.Ticket, int64, error) {
	role, err := s.resolveRole(input.ProjectID, input.ActorID)
	if err != nil {
		return nil, 0, err
	}
	if err := policy.CanViewTickets(role).Err(); err != nil {
		return nil, 0, err
	}

	filter := repository.TicketFilter{
		ProjectIDs: []uint64{input.ProjectID},
		Status:     input.Status,
		Priority:   input.Priority,
		Page:       input.Page,
		PageSize:   input.PageSize,
	}

	tickets, total, err := s.ticketRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tickets: %w", err)
	}

	return tickets, total, nil
}

// SearchTicketsInput represents cross-project search filters
type SearchTicketsInput struct {
	ActorID    uint64
	ProjectID  *uint64
	Status     *models.TicketStatus
	Priority   *models.TicketPriority
	AssignedTo *uint64
	Query      string
	Page       int
	PageSize   int
}

// SearchTickets searches tickets across the caller's projects, or within
// one project when ProjectID is set.
func (s *TicketService) SearchTickets(input SearchTicketsInput) ([]models.Ticket, int64, error) {
	var projectIDs []uint64

	if input.ProjectID != nil {
		role, err := s.resolveRole(*input.ProjectID, input.ActorID)
		if err != nil {
			return nil, 0, err
		}
		if err := policy.CanViewTickets(role).Err(); err != nil {
			return nil, 0, err
		}
		projectIDs = []uint64{*input.ProjectID}
	} else {
		ids, err := s.projectRepo.MemberProjectIDs(input.ActorID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to fetch project memberships: %w", err)
		}
		if len(ids) == 0 {
			return []models.Ticket{}, 0, nil
		}
		projectIDs = ids
	}

	filter := repository.TicketFilter{
		ProjectIDs: projectIDs,
		Status:     input.Status,
		Priority:   input.Priority,
		AssignedTo: input.AssignedTo,
		Query:      input.Query,
		Page:       input.Page,
		PageSize:   input.PageSize,
	}

	tickets, total, err := s.ticketRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search tickets: %w", err)
	}

	return tickets, total, nil
}

// GetTicket returns a ticket with related data for a member caller.
func (s *TicketService) GetTicket(ticketID, actorID uint64) (*models.Ticket, error) {
	ticket, err := s.ticketRepo.FindByID(ticketID, "Assignee", "Project")
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

	return ticket, nil
}

// UpdateTicketInput represents a partial update. Nil pointers leave the
// field untouched; ClearAssignee unassigns explicitly.
type UpdateTicketInput struct {
	TicketID      uint64
	ActorID       uint64
	Title         *string
	Description   *string
	Type          *models.TicketType
	Priority      *models.TicketPriority
	Position      *int
	Status        *models.TicketStatus
	AssignedTo    *uint64
	ClearAssignee bool
}

// UpdateTicket applies a partial update after the policy engine approves
// it. Only the fields present in the input are touched.
func (s *TicketService) UpdateTicket(input UpdateTicketInput) (*models.Ticket, error) {
	ticket, err := s.ticketRepo.FindByID(input.TicketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}

	role, err := s.resolveRole(ticket.ProjectID, input.ActorID)
	if err != nil {
		return nil, err
	}

	snapshot := policy.TicketSnapshot{
		Status:     ticket.Status,
		AssignedTo: ticket.AssignedTo,
	}
	changes := policy.TicketChanges{
		Title:         input.Title,
		Description:   input.Description,
		Type:          input.Type,
		Priority:      input.Priority,
		Position:      input.Position,
		Status:        input.Status,
		AssignedTo:    input.AssignedTo,
		ClearAssignee: input.ClearAssignee,
	}

	if err := policy.CanUpdateTicket(role, input.ActorID, snapshot, changes).Err(); err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleEmpty
		}
		ticket.Title = *input.Title
	}
	if input.Description != nil {
		ticket.Description = *input.Description
	}
	if input.Type != nil {
		ticket.Type = *input.Type
	}
	if input.Priority != nil {
		ticket.Priority = *input.Priority
	}
	if input.Position != nil {
		ticket.Position = *input.Position
	}
	if input.Status != nil {
		ticket.Status = *input.Status
	}
	if input.ClearAssignee {
		ticket.AssignedTo = nil
	} else if input.AssignedTo != nil {
		if err := s.ensureMember(ticket.ProjectID, *input.AssignedTo); err != nil {
			return nil, err
		}
		ticket.AssignedTo = input.AssignedTo
	}

	if err := s.ticketRepo.Update(ticket); err != nil {
		return nil, fmt.Errorf("failed to update ticket: %w", err)
	}

	return s.ticketRepo.FindByID(ticket.ID, "Assignee")
}

// ArchiveTicket soft deletes a ticket. Admin-only; archiving an already
// archived ticket is an idempotent no-op.
func (s *TicketService) ArchiveTicket(ticketID, actorID uint64) error {
	ticket, err := s.ticketRepo.FindByID(ticketID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to find ticket: %w", err)
		}

		archived, archErr := s.ticketRepo.FindArchivedByID(ticketID)
		if archErr != nil {
			return ErrTicketNotFound
		}

		// Already archived: authorize, then do nothing.
		role, roleErr := s.resolveRole(archived.ProjectID, actorID)
		if roleErr != nil {
			return roleErr
		}
		return policy.CanArchiveTicket(role).Err()
	}

	role, err := s.resolveRole(ticket.ProjectID, actorID)
	if err != nil {
		return err
	}
	if err := policy.CanArchiveTicket(role).Err(); err != nil {
		return err
	}

	if err := s.ticketRepo.Archive(ticket.ID); err != nil {
		return fmt.Errorf("failed to archive ticket: %w", err)
	}

	return nil
}

// KanbanBoard groups a project's visible tickets by status.
func (s *TicketService) KanbanBoard(projectID, actorID uint64) (map[models.TicketStatus][]models.Ticket, error) {
	role, err := s.resolveRole(projectID, actorID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanViewTickets(role).Err(); err != nil {
		return nil, err
	}

	tickets, _, err := s.ticketRepo.List(repository.TicketFilter{ProjectIDs: []uint64{projectID}})
	if err != nil {
		return nil, fmt.Errorf("failed to load board: %w", err)
	}

	board := map[models.TicketStatus][]models.Ticket{
		models.StatusTodo:       {},
		models.StatusInProgress: {},
		models.StatusDone:       {},
	}
	for _, t := range tickets {
		board[t.Status] = append(board[t.Status], t)
	}

	return board, nil
}

// MoveTicket is the kanban move: a status and/or position change routed
// through the same update policy as any other edit.
func (s *TicketService) MoveTicket(ticketID, actorID uint64, newStatus models.TicketStatus, newPosition int) (*models.Ticket, error) {
	input := UpdateTicketInput{
		TicketID: ticketID,
		ActorID:  actorID,
		Position: &newPosition,
	}
	if newStatus != "" {
		input.Status = &newStatus
	}
	return s.UpdateTicket(input)
}

// Dashboard returns per-status ticket counts for a project, archived
// tickets excluded.
func (s *TicketService) Dashboard(projectID, actorID uint64) (map[models.TicketStatus]int64, error) {
	role, err := s.resolveRole(projectID, actorID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanViewTickets(role).Err(); err != nil {
		return nil, err
	}

	counts, err := s.ticketRepo.CountByStatus(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}

	for _, status := range []models.TicketStatus{models.StatusTodo, models.StatusInProgress, models.StatusDone} {
		if _, ok := counts[status]; !ok {
			counts[status] = 0
		}
	}

	return counts, nil
}

// resolveRole looks up the caller's membership and maps it to a role.
func (s *TicketService) resolveRole(projectID, userID uint64) (models.MemberRole, error) {
	member, err := s.projectRepo.FindMember(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return policy.RoleNone, nil
		}
		return policy.RoleNone, fmt.Errorf("failed to resolve membership: %w", err)
	}
	return policy.ResolveRole(member), nil
}

// ensureMember verifies that a user belongs to a project.
func (s *TicketService) ensureMember(projectID, userID uint64) error {
	if _, err := s.projectRepo.FindMember(projectID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssigneeNotMember
		}
		return fmt.Errorf("failed to verify membership: %w", err)
	}
	return nil
}
