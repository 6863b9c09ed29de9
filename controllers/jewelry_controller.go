package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/anlan/pearlcms/config"
	"github.com/anlan/pearlcms/models"
	"github.com/anlan/pearlcms/utils"
)

// JewelryController manages CRUD operations for catalog items.
type JewelryController struct {
	db *gorm.DB
}

// NewJewelryController creates a new JewelryController instance.
func NewJewelryController(db *gorm.DB) *JewelryController {
	return &JewelryController{db: db}
}

func preloadImages(db *gorm.DB) *gorm.DB {
	return db.Order("order_index ASC")
}

// ListJewelry returns catalog items ordered by order_index. Supports the
// featured filter, a hard limit, `all=true` to include hidden items
// (admin views), and optional pagination via page (+ limit as page size).
func (j *JewelryController) ListJewelry(ctx *gin.Context) {
	featured := strings.TrimSpace(ctx.Query("featured"))
	allItems := strings.EqualFold(ctx.Query("all"), "true")

	limit := 0
	if v := strings.TrimSpace(ctx.Query("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	query := j.db.Model(&models.Jewelry{}).Preload("Images", preloadImages)
	if !allItems {
		query = query.Where("is_visible = ?", true)
	}
	if featured != "" {
		query = query.Where("is_featured = ?", true)
	}
	query = query.Order("order_index ASC")

	if pageStr := strings.TrimSpace(ctx.Query("page")); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			page = 1
		}
		perPage := limit
		if perPage <= 0 {
			perPage = 10
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to count jewelry")
			return
		}

		var items []models.Jewelry
		if err := query.Offset((page - 1) * perPage).Limit(perPage).Find(&items).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to list jewelry")
			return
		}

		utils.Success(ctx, gin.H{
			"items":    items,
			"total":    total,
			"pages":    int((total + int64(perPage) - 1) / int64(perPage)),
			"page":     page,
			"per_page": perPage,
		})
		return
	}

	if limit > 0 {
		query = query.Limit(limit)
	}

	var items []models.Jewelry
	if err := query.Find(&items).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to list jewelry")
		return
	}
	utils.Success(ctx, items)
}

// GetJewelry returns a single catalog item with its images.
func (j *JewelryController) GetJewelry(ctx *gin.Context) {
	var item models.Jewelry
	if err := j.db.Preload("Images", preloadImages).First(&item, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40410, "jewelry not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to load jewelry")
		return
	}
	utils.Success(ctx, item)
}

// CreateJewelry stores a new catalog item.
func (j *JewelryController) CreateJewelry(ctx *gin.Context) {
	var req struct {
		Name          string `json:"name" binding:"required"`
		NameEn        string `json:"name_en"`
		Category      string `json:"category"`
		Description   string `json:"description"`
		DescriptionEn string `json:"description_en"`
		OrderIndex    int    `json:"order_index"`
		IsVisible     *bool  `json:"is_visible"`
		IsFeatured    bool   `json:"is_featured"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40011, "name is required")
		return
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "耳饰"
	}
	visible := true
	if req.IsVisible != nil {
		visible = *req.IsVisible
	}

	item := models.Jewelry{
		Name:          utils.StripTags(strings.TrimSpace(req.Name)),
		NameEn:        utils.StripTags(strings.TrimSpace(req.NameEn)),
		Category:      utils.StripTags(category),
		Description:   utils.Sanitize(req.Description),
		DescriptionEn: utils.Sanitize(req.DescriptionEn),
		OrderIndex:    req.OrderIndex,
		IsVisible:     visible,
		IsFeatured:    req.IsFeatured,
	}

	if err := j.db.Create(&item).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to create jewelry")
		return
	}

	utils.Created(ctx, item)
}

// UpdateJewelry applies a merge-patch: only fields present in the payload are
// changed, absent fields keep their prior values.
func (j *JewelryController) UpdateJewelry(ctx *gin.Context) {
	var item models.Jewelry
	if err := j.db.First(&item, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40410, "jewelry not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to load jewelry")
		return
	}

	var req struct {
		Name          *string `json:"name"`
		NameEn        *string `json:"name_en"`
		Category      *string `json:"category"`
		Description   *string `json:"description"`
		DescriptionEn *string `json:"description_en"`
		OrderIndex    *int    `json:"order_index"`
		IsVisible     *bool   `json:"is_visible"`
		IsFeatured    *bool   `json:"is_featured"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40012, "invalid request payload")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = utils.StripTags(strings.TrimSpace(*req.Name))
	}
	if req.NameEn != nil {
		updates["name_en"] = utils.StripTags(strings.TrimSpace(*req.NameEn))
	}
	if req.Category != nil {
		updates["category"] = utils.StripTags(*req.Category)
	}
	if req.Description != nil {
		updates["description"] = utils.Sanitize(*req.Description)
	}
	if req.DescriptionEn != nil {
		updates["description_en"] = utils.Sanitize(*req.DescriptionEn)
	}
	if req.OrderIndex != nil {
		updates["order_index"] = *req.OrderIndex
	}
	if req.IsVisible != nil {
		updates["is_visible"] = *req.IsVisible
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}

	if len(updates) > 0 {
		if err := j.db.Model(&item).Updates(updates).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to update jewelry")
			return
		}
	}

	if err := j.db.Preload("Images", preloadImages).First(&item, item.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to load jewelry")
		return
	}
	utils.Success(ctx, item)
}

// DeleteJewelry removes a catalog item and cascades to its images, including
// their stored files.
func (j *JewelryController) DeleteJewelry(ctx *gin.Context) {
	var item models.Jewelry
	if err := j.db.First(&item, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40410, "jewelry not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to load jewelry")
		return
	}

	var images []models.Image
	if err := j.db.Where("jewelry_id = ?", item.ID).Find(&images).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50015, "failed to load jewelry images")
		return
	}

	err := j.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("jewelry_id = ?", item.ID).Delete(&models.Image{}).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50016, "failed to delete jewelry")
		return
	}

	// File cleanup after commit; missing files are not an error.
	uploadDir := config.Get().UploadDir
	for _, img := range images {
		removeAssetFiles(uploadDir, img.Filename)
	}

	utils.Success(ctx, gin.H{"message": "jewelry deleted"})
}
