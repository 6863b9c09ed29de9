package models

import "time"

// Jewelry is a catalog item shown on the public site. Display order within
// the visible set follows order_index ascending.
type Jewelry struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	NameEn        string    `gorm:"size:100" json:"name_en"`
	Category      string    `gorm:"size:50;default:'耳饰'" json:"category"`
	Description   string    `gorm:"type:text" json:"description"`
	DescriptionEn string    `gorm:"type:text" json:"description_en"`
	OrderIndex    int       `gorm:"default:0" json:"order_index"`
	IsVisible     bool      `json:"is_visible"`
	IsFeatured    bool      `gorm:"default:false" json:"is_featured"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Images        []Image   `gorm:"foreignKey:JewelryID" json:"images"`
}
