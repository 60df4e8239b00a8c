package repository

import (
	"github.com/aokumura/issue-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

// Create creates a new comment
func (r *GormCommentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// FindByID finds a comment by ID with optional preloading. Deleted
// comments are not found.
func (r *GormCommentRepository) FindByID(id uint64, preload ...string) (*models.Comment, error) {
	var comment models.Comment
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&comment, id).Error; err != nil {
		return nil, err
	}

	return &comment, nil
}

// FindArchivedByID finds an already-deleted comment. Used only to make a
// repeated delete call idempotent.
func (r *GormCommentRepository) FindArchivedByID(id uint64) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.Unscoped().
		Where("id = ? AND deleted_at IS NOT NULL", id).
		First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByTicket lists the visible comments of a ticket, oldest first
func (r *GormCommentRepository) ListByTicket(ticketID uint64) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Preload("Author").
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteWithTombstone overwrites the content and soft deletes the comment
// in one transaction, so the original text is unrecoverable even through
// unscoped queries.
func (r *GormCommentRepository) DeleteWithTombstone(id uint64, tombstone string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Comment{}).
			Where("id = ?", id).
			Update("content", tombstone).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Comment{}, id).Error
	})
}
