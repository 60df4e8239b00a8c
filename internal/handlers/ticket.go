package handlers

import (
	"net/http"
	"strconv"

	"github.com/aokumura/issue-tracker-api/internal/dto"
	apierrors "github.com/aokumura/issue-tracker-api/internal/errors"
	"github.com/aokumura/issue-tracker-api/internal/middleware"
	"github.com/aokumura/issue-tracker-api/internal/models"
	"github.com/aokumura/issue-tracker-api/internal/services"
	"github.com/aokumura/issue-tracker-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// TicketHandler coordinates ticket HTTP handlers.
type TicketHandler struct {
	ticketService *services.TicketService
}

// NewTicketHandler creates a new TicketHandler.
func NewTicketHandler(ticketService *services.TicketService) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
	}
}

// CreateTicket creates a ticket in a project.
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type CreateTicketRequest struct {
		Title       string                `json:"title" binding:"required,max=255"`
		Description string                `json:"description"`
		Type        models.TicketType     `json:"type" binding:"omitempty,oneof=bug task feature"`
		Priority    models.TicketPriority `json:"priority" binding:"omitempty,oneof=low medium high"`
		AssignedTo  *uint64               `json:"assigned_to"`
	}

	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	ticket, err := h.ticketService.CreateTicket(services.CreateTicketInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Priority:    req.Priority,
		ProjectID:   projectID,
		AssignedTo:  req.AssignedTo,
		ActorID:     userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTicketDTO(*ticket))
}

// ListTickets returns the visible tickets of a project.
func (h *TicketHandler) ListTickets(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	input := services.ListTicketsInput{
		ProjectID: projectID,
		ActorID:   userID,
		Page:      params.Page,
		PageSize:  params.Limit,
	}
	if status := c.Query("status"); status != "" {
		s := models.TicketStatus(status)
		input.Status = &s
	}
	if priority := c.Query("priority"); priority != "" {
		p := models.TicketPriority(priority)
		input.Priority = &p
	}

	tickets, total, err := h.ticketService.ListTickets(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTicketListResponse(tickets, params.Page, params.Limit, total))
}

// SearchTickets searches tickets across the caller's projects.
func (h *TicketHandler) SearchTickets(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	input := services.SearchTicketsInput{
		ActorID:  userID,
		Query:    c.Query("q"),
		Page:     params.Page,
		PageSize: params.Limit,
	}
	if projectIDStr := c.Query("project_id"); projectIDStr != "" {
		projectID, err := strconv.ParseUint(projectIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project_id parameter")
			return
		}
		input.ProjectID = &projectID
	}
	if status := c.Query("status"); status != "" {
		s := models.TicketStatus(status)
		input.Status = &s
	}
	if priority := c.Query("priority"); priority != "" {
		p := models.TicketPriority(priority)
		input.Priority = &p
	}
	if assignedToStr := c.Query("assigned_to"); assignedToStr != "" {
		assignedTo, err := strconv.ParseUint(assignedToStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assigned_to parameter")
			return
		}
		input.AssignedTo = &assignedTo
	}

	tickets, total, err := h.ticketService.SearchTickets(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTicketListResponse(tickets, params.Page, params.Limit, total))
}

// GetTicket returns a single ticket.
func (h *TicketHandler) GetTicket(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ticket, err := h.ticketService.GetTicket(ticketID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTicketDTO(*ticket))
}

// UpdateTicket applies a partial update to a ticket. Absent fields are
// left untouched; clear_assignee unassigns explicitly.
func (h *TicketHandler) UpdateTicket(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateTicketRequest struct {
		Title         *string                `json:"title" binding:"omitempty,max=255"`
		Description   *string                `json:"description"`
		Type          *models.TicketType     `json:"type" binding:"omitempty,oneof=bug task feature"`
		Priority      *models.TicketPriority `json:"priority" binding:"omitempty,oneof=low medium high"`
		Position      *int                   `json:"position"`
		Status        *models.TicketStatus   `json:"status" binding:"omitempty,oneof=todo in_progress done"`
		AssignedTo    *uint64                `json:"assigned_to"`
		ClearAssignee bool                   `json:"clear_assignee"`
	}

	var req UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	ticket, err := h.ticketService.UpdateTicket(services.UpdateTicketInput{
		TicketID:      ticketID,
		ActorID:       userID,
		Title:         req.Title,
		Description:   req.Description,
		Type:          req.Type,
		Priority:      req.Priority,
		Position:      req.Position,
		Status:        req.Status,
		AssignedTo:    req.AssignedTo,
		ClearAssignee: req.ClearAssignee,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTicketDTO(*ticket))
}

// ArchiveTicket soft deletes a ticket. Repeating the call on an archived
// ticket succeeds without further effect.
func (h *TicketHandler) ArchiveTicket(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.ticketService.ArchiveTicket(ticketID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ticket archived successfully",
	})
}

// MoveTicket moves a ticket on the kanban board.
func (h *TicketHandler) MoveTicket(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type MoveTicketRequest struct {
		Status   models.TicketStatus `json:"status" binding:"omitempty,oneof=todo in_progress done"`
		Position int                 `json:"position" binding:"min=0"`
	}

	var req MoveTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	ticket, err := h.ticketService.MoveTicket(ticketID, userID, req.Status, req.Position)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTicketDTO(*ticket))
}

// KanbanBoard returns a project's tickets grouped into status columns.
func (h *TicketHandler) KanbanBoard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	board, err := h.ticketService.KanbanBoard(projectID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDTO(projectID, board))
}

// Dashboard returns per-status ticket counts for a project.
func (h *TicketHandler) Dashboard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	counts, err := h.ticketService.Dashboard(projectID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDashboardDTO(projectID, counts))
}
