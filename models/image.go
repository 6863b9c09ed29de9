package models

import "time"

// Image is a stored catalog photo. Filename is the generated storage name,
// unique per upload directory; path and thumb_path are derived from it.
// ThumbPath stays empty until a thumbnail has been produced.
type Image struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Filename      string    `gorm:"size:255;uniqueIndex;not null" json:"filename"`
	OriginalName  string    `gorm:"size:255" json:"original_name"`
	Path          string    `gorm:"size:500;not null" json:"path"`
	ThumbPath     string    `gorm:"size:500" json:"thumb_path"`
	JewelryID     *uint     `gorm:"index" json:"jewelry_id"`
	Description   string    `gorm:"type:text" json:"description"`
	DescriptionEn string    `gorm:"type:text" json:"description_en"`
	OrderIndex    int       `gorm:"default:0" json:"order_index"`
	CreatedAt     time.Time `json:"created_at"`
}
