package dto

import (
	"time"

	"github.com/aokumura/issue-tracker-api/internal/models"
	"github.com/aokumura/issue-tracker-api/internal/utils"
)

// TicketDTO represents a ticket in API responses
type TicketDTO struct {
	ID          uint64                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Type        models.TicketType     `json:"type"`
	Status      models.TicketStatus   `json:"status"`
	Priority    models.TicketPriority `json:"priority"`
	Position    int                   `json:"position"`
	ProjectID   uint64                `json:"project_id"`
	AssignedTo  *uint64               `json:"assigned_to"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	Assignee    *UserDTO              `json:"assignee,omitempty"`
}

// TicketListResponse represents a paginated list of tickets
type TicketListResponse struct {
	Tickets    []TicketDTO              `json:"tickets"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// BoardColumnDTO represents one kanban column
type BoardColumnDTO struct {
	Status  models.TicketStatus `json:"status"`
	Tickets []TicketDTO         `json:"tickets"`
}

// BoardDTO represents a project's kanban board in column order
type BoardDTO struct {
	ProjectID uint64           `json:"project_id"`
	Columns   []BoardColumnDTO `json:"columns"`
}

// DashboardDTO represents per-status ticket counts for a project
type DashboardDTO struct {
	ProjectID uint64                        `json:"project_id"`
	Counts    map[models.TicketStatus]int64 `json:"counts"`
	Total     int64                         `json:"total"`
}

// ToTicketDTO converts a Ticket model to TicketDTO
func ToTicketDTO(ticket models.Ticket) TicketDTO {
	dto := TicketDTO{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Type:        ticket.Type,
		Status:      ticket.Status,
		Priority:    ticket.Priority,
		Position:    ticket.Position,
		ProjectID:   ticket.ProjectID,
		AssignedTo:  ticket.AssignedTo,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}

	if ticket.Assignee != nil && ticket.Assignee.ID != 0 {
		assignee := ToUserDTO(*ticket.Assignee)
		dto.Assignee = &assignee
	}

	return dto
}

// ToTicketDTOs converts a slice of tickets
func ToTicketDTOs(tickets []models.Ticket) []TicketDTO {
	dtos := make([]TicketDTO, len(tickets))
	for i, ticket := range tickets {
		dtos[i] = ToTicketDTO(ticket)
	}
	return dtos
}

// ToTicketListResponse builds a paginated ticket list response
func ToTicketListResponse(tickets []models.Ticket, page, limit int, total int64) TicketListResponse {
	return TicketListResponse{
		Tickets: ToTicketDTOs(tickets),
		Pagination: utils.PaginationResponse{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	}
}

// ToBoardDTO builds a kanban board response with columns in workflow order
func ToBoardDTO(projectID uint64, board map[models.TicketStatus][]models.Ticket) BoardDTO {
	statuses := []models.TicketStatus{models.StatusTodo, models.StatusInProgress, models.StatusDone}
	columns := make([]BoardColumnDTO, len(statuses))
	for i, status := range statuses {
		columns[i] = BoardColumnDTO{
			Status:  status,
			Tickets: ToTicketDTOs(board[status]),
		}
	}
	return BoardDTO{
		ProjectID: projectID,
		Columns:   columns,
	}
}

// ToDashboardDTO builds a dashboard response from per-status counts
func ToDashboardDTO(projectID uint64, counts map[models.TicketStatus]int64) DashboardDTO {
	var total int64
	for _, n := range counts {
		total += n
	}
	return DashboardDTO{
		ProjectID: projectID,
		Counts:    counts,
		Total:     total,
	}
}
