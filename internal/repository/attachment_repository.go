package repository

import (
	"github.com/aokumura/issue-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormAttachmentRepository is a GORM implementation of AttachmentRepository
type GormAttachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository creates a new AttachmentRepository
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &GormAttachmentRepository{db: db}
}

// Create records an uploaded attachment
func (r *GormAttachmentRepository) Create(attachment *models.Attachment) error {
	return r.db.Create(attachment).Error
}

// ListByTicket lists the attachments of a ticket
func (r *GormAttachmentRepository) ListByTicket(ticketID uint64) ([]models.Attachment, error) {
	var attachments []models.Attachment
	if err := r.db.Preload("Uploader").
		Where("ticket_id = ?", ticketID).
		Order("uploaded_at ASC").
		Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}
