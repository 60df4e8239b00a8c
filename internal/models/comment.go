package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment deletion is soft: DeletedAt is set and Content is overwritten
// with a tombstone in the same transaction, so the original text is gone
// even for unscoped readers.
type Comment struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	TicketID  uint64         `gorm:"not null;index" json:"ticket_id"`
	UserID    uint64         `gorm:"not null" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Ticket Ticket `gorm:"foreignKey:TicketID" json:"ticket,omitempty"`
	Author User   `gorm:"foreignKey:UserID" json:"author,omitempty"`
}
