package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/anlan/pearlcms/config"
	"github.com/anlan/pearlcms/models"
	"github.com/anlan/pearlcms/utils"
)

// GalleryController manages the homepage carousel entries.
type GalleryController struct {
	db *gorm.DB
}

// NewGalleryController creates a new GalleryController instance.
func NewGalleryController(db *gorm.DB) *GalleryController {
	return &GalleryController{db: db}
}

// ListGallery returns carousel entries ordered by order_index. Hidden entries
// are excluded unless visible=false is passed.
func (g *GalleryController) ListGallery(ctx *gin.Context) {
	visibleOnly := !strings.EqualFold(ctx.DefaultQuery("visible", "true"), "false")

	query := g.db.Order("order_index ASC")
	if visibleOnly {
		query = query.Where("is_visible = ?", true)
	}

	var images []models.GalleryImage
	if err := query.Find(&images).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to list gallery")
		return
	}
	utils.Success(ctx, images)
}

// ListAllGallery returns every carousel entry for the admin view.
func (g *GalleryController) ListAllGallery(ctx *gin.Context) {
	var images []models.GalleryImage
	if err := g.db.Order("order_index ASC").Find(&images).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to list gallery")
		return
	}
	utils.Success(ctx, images)
}

// UploadGalleryImage accepts a single upload (field "image") with title,
// title_en and alt form values. New entries are appended after the current
// maximum order_index so they sort last by default.
func (g *GalleryController) UploadGalleryImage(ctx *gin.Context) {
	header, err := ctx.FormFile("image")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "no file uploaded")
		return
	}

	cfg := config.Get()
	if header.Size > int64(cfg.MaxUploadMB)<<20 {
		utils.Error(ctx, http.StatusBadRequest, 40041, "file too large")
		return
	}

	filename, err := utils.AllocateFilename(header.Filename, "gallery_")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40042, "unsupported file format")
		return
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to create upload directory")
		return
	}
	if err := ctx.SaveUploadedFile(header, filepath.Join(cfg.UploadDir, filename)); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to save file")
		return
	}

	finalName := filename
	thumbPath := ""
	res, err := utils.TranscodeImage(cfg.UploadDir, filename, cfg.MaxImageDim, cfg.ThumbMaxDim, cfg.ImageQuality, cfg.ThumbQuality)
	if err != nil {
		utils.Sugar.Warnf("transcode failed for %s, storing original: %v", filename, err)
	} else {
		finalName = res.Filename
		thumbPath = utils.PublicPath(res.ThumbFilename)
	}

	var maxOrder int
	g.db.Model(&models.GalleryImage{}).Select("COALESCE(MAX(order_index),0)").Scan(&maxOrder)

	image := models.GalleryImage{
		Filename:     finalName,
		OriginalName: utils.SanitizeOriginalName(header.Filename),
		Path:         utils.PublicPath(finalName),
		ThumbPath:    thumbPath,
		Title:        utils.StripTags(ctx.PostForm("title")),
		TitleEn:      utils.StripTags(ctx.PostForm("title_en")),
		Alt:          utils.StripTags(ctx.PostForm("alt")),
		OrderIndex:   maxOrder + 1,
		IsVisible:    true,
	}
	if err := g.db.Create(&image).Error; err != nil {
		removeAssetFiles(cfg.UploadDir, finalName)
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to record gallery image")
		return
	}

	utils.Created(ctx, gin.H{"image": image})
}

// UpdateGalleryImage applies a merge-patch over title, title_en, alt,
// order_index and is_visible.
func (g *GalleryController) UpdateGalleryImage(ctx *gin.Context) {
	var image models.GalleryImage
	if err := g.db.First(&image, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40412, "gallery image not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to load gallery image")
		return
	}

	var req struct {
		Title      *string `json:"title"`
		TitleEn    *string `json:"title_en"`
		Alt        *string `json:"alt"`
		OrderIndex *int    `json:"order_index"`
		IsVisible  *bool   `json:"is_visible"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40043, "invalid request payload")
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = utils.StripTags(*req.Title)
	}
	if req.TitleEn != nil {
		updates["title_en"] = utils.StripTags(*req.TitleEn)
	}
	if req.Alt != nil {
		updates["alt"] = utils.StripTags(*req.Alt)
	}
	if req.OrderIndex != nil {
		updates["order_index"] = *req.OrderIndex
	}
	if req.IsVisible != nil {
		updates["is_visible"] = *req.IsVisible
	}

	if len(updates) > 0 {
		if err := g.db.Model(&image).Updates(updates).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50045, "failed to update gallery image")
			return
		}
	}

	if err := g.db.First(&image, image.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to load gallery image")
		return
	}
	utils.Success(ctx, image)
}

// DeleteGalleryImage removes the record plus the stored files; missing files
// are ignored.
func (g *GalleryController) DeleteGalleryImage(ctx *gin.Context) {
	var image models.GalleryImage
	if err := g.db.First(&image, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40412, "gallery image not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to load gallery image")
		return
	}

	if err := g.db.Delete(&image).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50046, "failed to delete gallery image")
		return
	}

	removeAssetFiles(config.Get().UploadDir, image.Filename)

	utils.Success(ctx, gin.H{"message": "gallery image deleted"})
}

// ReorderGallery applies a batch of (id, order_index) assignments in one
// transaction. Unknown ids are silently ignored.
func (g *GalleryController) ReorderGallery(ctx *gin.Context) {
	var req struct {
		Order []struct {
			ID         uint `json:"id"`
			OrderIndex int  `json:"order_index"`
		} `json:"order"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40044, "invalid request payload")
		return
	}

	err := g.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range req.Order {
			if err := tx.Model(&models.GalleryImage{}).
				Where("id = ?", item.ID).
				Update("order_index", item.OrderIndex).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50047, "failed to reorder gallery")
		return
	}

	utils.Success(ctx, gin.H{"message": "order updated"})
}
