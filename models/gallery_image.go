package models

import "time"

// GalleryImage is a standalone homepage carousel entry, not attached to any
// jewelry item.
type GalleryImage struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Filename     string    `gorm:"size:255;uniqueIndex;not null" json:"filename"`
	OriginalName string    `gorm:"size:255" json:"original_name"`
	Path         string    `gorm:"size:500;not null" json:"path"`
	ThumbPath    string    `gorm:"size:500" json:"thumb_path"`
	Title        string    `gorm:"size:100" json:"title"`
	TitleEn      string    `gorm:"size:100" json:"title_en"`
	Alt          string    `gorm:"size:200" json:"alt"`
	OrderIndex   int       `gorm:"default:0" json:"order_index"`
	IsVisible    bool      `json:"is_visible"`
	CreatedAt    time.Time `json:"created_at"`
}
