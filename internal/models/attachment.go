package models

import "time"

type Attachment struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	Filename   string    `gorm:"type:varchar(255);not null" json:"filename"`
	FilePath   string    `gorm:"type:varchar(512);not null" json:"-"`
	TicketID   uint64    `gorm:"not null;index" json:"ticket_id"`
	UploadedBy uint64    `gorm:"not null" json:"uploaded_by"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`

	// Relations
	Ticket   Ticket `gorm:"foreignKey:TicketID" json:"ticket,omitempty"`
	Uploader User   `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
}
