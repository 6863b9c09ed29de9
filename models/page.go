package models

import "time"

// Page holds editable content for a static page, keyed by page_key
// (e.g. "home", "about", "contact"). Content is an opaque JSON document
// stored as text; structure is left to the frontend that renders it.
// Pages are created lazily on first write.
type Page struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PageKey   string    `gorm:"size:50;uniqueIndex;not null" json:"page_key"`
	Content   string    `gorm:"type:text" json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}
