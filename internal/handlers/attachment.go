package handlers

import (
	"net/http"

	"github.com/aokumura/issue-tracker-api/internal/dto"
	apierrors "github.com/aokumura/issue-tracker-api/internal/errors"
	"github.com/aokumura/issue-tracker-api/internal/middleware"
	"github.com/aokumura/issue-tracker-api/internal/services"
	"github.com/gin-gonic/gin"
)

// AttachmentHandler coordinates ticket attachment HTTP handlers.
type AttachmentHandler struct {
	attachmentService *services.AttachmentService
}

// NewAttachmentHandler creates a new AttachmentHandler.
func NewAttachmentHandler(attachmentService *services.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
	}
}

// UploadAttachment stores an uploaded file against a ticket.
func (h *AttachmentHandler) UploadAttachment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "Missing file upload")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apierrors.BadRequest(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	attachment, err := h.attachmentService.Upload(ticketID, userID, fileHeader.Filename, file)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAttachmentDTO(*attachment))
}

// ListAttachments returns a ticket's attachments.
func (h *AttachmentHandler) ListAttachments(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	attachments, err := h.attachmentService.List(ticketID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attachments": dto.ToAttachmentDTOs(attachments),
	})
}
