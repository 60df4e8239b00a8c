package handlers

import (
	"net/http"

	"github.com/aokumura/issue-tracker-api/internal/dto"
	apierrors "github.com/aokumura/issue-tracker-api/internal/errors"
	"github.com/aokumura/issue-tracker-api/internal/middleware"
	"github.com/aokumura/issue-tracker-api/internal/services"
	"github.com/gin-gonic/gin"
)

// CommentHandler coordinates ticket comment HTTP handlers.
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// ListComments returns a ticket's comments in creation order.
func (h *CommentHandler) ListComments(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	comments, err := h.commentService.ListComments(ticketID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": dto.ToCommentDTOs(comments),
	})
}

// CreateComment adds a comment to a ticket.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type CreateCommentRequest struct {
		Content string `json:"content" binding:"required"`
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.CreateComment(ticketID, userID, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// DeleteComment removes a comment. Only the comment author or the project
// owner may delete; repeated deletion succeeds without further effect.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.commentService.DeleteComment(commentID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment deleted successfully",
	})
}
