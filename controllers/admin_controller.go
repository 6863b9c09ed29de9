package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/anlan/pearlcms/models"
	"github.com/anlan/pearlcms/utils"
)

// AdminController exposes dashboard summary numbers.
type AdminController struct {
	db *gorm.DB
}

// NewAdminController creates a new AdminController instance.
func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{db: db}
}

// GetStats returns catalog counts for the admin dashboard. Count failures
// degrade to zero rather than failing the whole response.
func (a *AdminController) GetStats(ctx *gin.Context) {
	var jewelryCount, imageCount, visibleCount int64

	if err := a.db.Model(&models.Jewelry{}).Count(&jewelryCount).Error; err != nil {
		jewelryCount = 0
	}
	if err := a.db.Model(&models.Image{}).Count(&imageCount).Error; err != nil {
		imageCount = 0
	}
	if err := a.db.Model(&models.Jewelry{}).Where("is_visible = ?", true).Count(&visibleCount).Error; err != nil {
		visibleCount = 0
	}

	utils.Success(ctx, gin.H{
		"jewelryCount": jewelryCount,
		"imageCount":   imageCount,
		"visibleCount": visibleCount,
	})
}
