package models

import "time"

// PageView is an append-only visit event recorded by the public track
// endpoint. VisitorID is a client-supplied pseudo-identity used for
// unique-visitor counts; rows are never updated or deleted.
type PageView struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PagePath  string    `gorm:"size:255;index;not null" json:"page_path"`
	VisitorID *string   `gorm:"size:100;index" json:"visitor_id"`
	IPAddress string    `gorm:"size:50" json:"-"`
	UserAgent string    `gorm:"size:500" json:"-"`
	Referrer  *string   `gorm:"size:500" json:"-"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
