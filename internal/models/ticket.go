package models

import (
	"time"

	"gorm.io/gorm"
)

type TicketStatus string

const (
	StatusTodo       TicketStatus = "todo"
	StatusInProgress TicketStatus = "in_progress"
	StatusDone       TicketStatus = "done"
)

type TicketType string

const (
	TypeBug     TicketType = "bug"
	TypeTask    TicketType = "task"
	TypeFeature TicketType = "feature"
)

type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityMedium TicketPriority = "medium"
	PriorityHigh   TicketPriority = "high"
)

// Ticket is never hard-deleted; archiving sets DeletedAt, which excludes
// the row from every query that does not use Unscoped.
type Ticket struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Type        TicketType     `gorm:"type:varchar(20);not null" json:"type"`
	Status      TicketStatus   `gorm:"type:varchar(20);not null;default:'todo'" json:"status"`
	Priority    TicketPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	Position    int            `gorm:"not null;default:0" json:"position"`
	ProjectID   uint64         `gorm:"not null;index" json:"project_id"`
	AssignedTo  *uint64        `json:"assigned_to"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Project  Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Assignee *User   `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
}
