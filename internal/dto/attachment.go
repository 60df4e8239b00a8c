package dto

import (
	"time"

	"github.com/aokumura/issue-tracker-api/internal/models"
)

// AttachmentDTO represents a ticket attachment in API responses
type AttachmentDTO struct {
	ID         uint64    `json:"id"`
	Filename   string    `json:"filename"`
	TicketID   uint64    `json:"ticket_id"`
	UploadedBy uint64    `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
	Uploader   *UserDTO  `json:"uploader,omitempty"`
}

// ToAttachmentDTO converts an Attachment model to AttachmentDTO
func ToAttachmentDTO(attachment models.Attachment) AttachmentDTO {
	dto := AttachmentDTO{
		ID:         attachment.ID,
		Filename:   attachment.Filename,
		TicketID:   attachment.TicketID,
		UploadedBy: attachment.UploadedBy,
		UploadedAt: attachment.UploadedAt,
	}

	if attachment.Uploader.ID != 0 {
		uploader := ToUserDTO(attachment.Uploader)
		dto.Uploader = &uploader
	}

	return dto
}

// ToAttachmentDTOs converts a slice of attachments
func ToAttachmentDTOs(attachments []models.Attachment) []AttachmentDTO {
	dtos := make([]AttachmentDTO, len(attachments))
	for i, attachment := range attachments {
		dtos[i] = ToAttachmentDTO(attachment)
	}
	return dtos
}
