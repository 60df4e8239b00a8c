package repository

import (
	"github.com/aokumura/issue-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormTicketRepository is a GORM implementation of TicketRepository
type GormTicketRepository struct {
	db *gorm.DB
}

// NewTicketRepository creates a new TicketRepository
func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &GormTicketRepository{db: db}
}

// Create creates a new ticket
func (r *GormTicketRepository) Create(ticket *models.Ticket) error {
	return r.db.Create(ticket).Error
}

// FindByID finds a ticket by ID with optional preloading. Archived
// tickets are not found.
func (r *GormTicketRepository) FindByID(id uint64, preload ...string) (*models.Ticket, error) {
	var ticket models.Ticket
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&ticket, id).Error; err != nil {
		return nil, err
	}

	return &ticket, nil
}

// FindArchivedByID finds an already-archived ticket. Used only to make a
// repeated archive call idempotent; never part of a read path.
func (r *GormTicketRepository) FindArchivedByID(id uint64) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := r.db.Unscoped().
		Where("id = ? AND deleted_at IS NOT NULL", id).
		First(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

// List retrieves tickets with filtering and pagination
func (r *GormTicketRepository) List(filter TicketFilter) ([]models.Ticket, int64, error) {
	var tickets []models.Ticket

	if len(filter.ProjectIDs) == 0 {
		return []models.Ticket{}, 0, nil
	}

	query := r.db.Model(&models.Ticket{}).Where("tickets.project_id IN ?", filter.ProjectIDs)

	if filter.Status != nil {
		query = query.Where("tickets.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tickets.priority = ?", *filter.Priority)
	}
	if filter.AssignedTo != nil {
		query = query.Where("tickets.assigned_to = ?", *filter.AssignedTo)
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		query = query.Where("tickets.title LIKE ? OR tickets.description LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tickets.position ASC, tickets.created_at DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		listQuery = listQuery.Offset(offset).Limit(filter.PageSize)
	}

	if err := listQuery.Preload("Assignee").Find(&tickets).Error; err != nil {
		return nil, 0, err
	}

	return tickets, total, nil
}

// Update updates a ticket
func (r *GormTicketRepository) Update(ticket *models.Ticket) error {
	return r.db.Save(ticket).Error
}

// Archive soft deletes a ticket
func (r *GormTicketRepository) Archive(id uint64) error {
	return r.db.Delete(&models.Ticket{}, id).Error
}

// CountByStatus returns per-status ticket counts for a project
func (r *GormTicketRepository) CountByStatus(projectID uint64) (map[models.TicketStatus]int64, error) {
	type row struct {
		Status models.TicketStatus
		Count  int64
	}

	var rows []row
	err := r.db.Model(&models.Ticket{}).
		Select("status, COUNT(id) AS count").
		Where("project_id = ?", projectID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.TicketStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
