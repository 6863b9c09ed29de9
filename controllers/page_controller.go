package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/anlan/pearlcms/models"
	"github.com/anlan/pearlcms/utils"
)

// PageController serves editable per-page content blobs. Content is stored as
// an opaque JSON document; the server never inspects its shape.
type PageController struct {
	db *gorm.DB
}

// NewPageController creates a new PageController instance.
func NewPageController(db *gorm.DB) *PageController {
	return &PageController{db: db}
}

// ListPages returns every stored page record for the admin editor.
func (p *PageController) ListPages(ctx *gin.Context) {
	var pages []models.Page
	if err := p.db.Order("page_key ASC").Find(&pages).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to list pages")
		return
	}
	utils.Success(ctx, pages)
}

// GetPage returns the parsed content document for a page key. Unknown keys
// and unparseable stored content both yield an empty object so the frontend
// can always render with defaults.
func (p *PageController) GetPage(ctx *gin.Context) {
	var page models.Page
	err := p.db.Where("page_key = ?", ctx.Param("page_key")).First(&page).Error
	if err != nil {
		ctx.JSON(http.StatusOK, gin.H{})
		return
	}

	var content map[string]interface{}
	if err := json.Unmarshal([]byte(page.Content), &content); err != nil || content == nil {
		ctx.JSON(http.StatusOK, gin.H{})
		return
	}
	ctx.JSON(http.StatusOK, content)
}

// UpdatePage upserts the content document for a page key. The body carries
// the serialized document in the "content" field.
func (p *PageController) UpdatePage(ctx *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "content is required")
		return
	}

	if !json.Valid([]byte(req.Content)) {
		utils.Error(ctx, http.StatusBadRequest, 40051, "content must be valid JSON")
		return
	}

	key := ctx.Param("page_key")
	var page models.Page
	err := p.db.Where("page_key = ?", key).First(&page).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		page = models.Page{PageKey: key, Content: req.Content}
		if err := p.db.Create(&page).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to save page")
			return
		}
	case err != nil:
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to load page")
		return
	default:
		if err := p.db.Model(&page).Update("content", req.Content).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to save page")
			return
		}
	}

	utils.Success(ctx, gin.H{"message": "page updated"})
}
