package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/anlan/pearlcms/config"
	"github.com/anlan/pearlcms/models"
	"github.com/anlan/pearlcms/utils"
)

// ImageController handles catalog image uploads and management.
type ImageController struct {
	db *gorm.DB
}

// NewImageController creates a new ImageController instance.
func NewImageController(db *gorm.DB) *ImageController {
	return &ImageController{db: db}
}

// UploadImages accepts a multi-file upload (field "images") with an optional
// jewelry_id form value. Each file runs through validate → save → transcode →
// record; invalid files are skipped silently and a transcode failure degrades
// to storing the original bytes without a thumbnail. Partial success is the
// contract: the response reports the files that made it.
func (i *ImageController) UploadImages(ctx *gin.Context) {
	form, err := ctx.MultipartForm()
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "no files uploaded")
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40030, "no files uploaded")
		return
	}

	var jewelryID *uint
	if v := strings.TrimSpace(ctx.PostForm("jewelry_id")); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			id := uint(n)
			jewelryID = &id
		}
	}

	cfg := config.Get()
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to create upload directory")
		return
	}
	maxSize := int64(cfg.MaxUploadMB) << 20

	uploaded := make([]models.Image, 0, len(files))
	for _, header := range files {
		if header.Size > maxSize {
			continue
		}

		filename, err := utils.AllocateFilename(header.Filename, "")
		if err != nil {
			// disallowed extension: nothing written, no record
			continue
		}

		if err := ctx.SaveUploadedFile(header, filepath.Join(cfg.UploadDir, filename)); err != nil {
			utils.Sugar.Warnf("failed to save upload %s: %v", header.Filename, err)
			continue
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

		image := models.Image{
			Filename:     finalName,
			OriginalName: utils.SanitizeOriginalName(header.Filename),
			Path:         utils.PublicPath(finalName),
			ThumbPath:    thumbPath,
			JewelryID:    jewelryID,
		}
		if err := i.db.Create(&image).Error; err != nil {
			utils.Sugar.Errorf("failed to record upload %s: %v", finalName, err)
			removeAssetFiles(cfg.UploadDir, finalName)
			continue
		}
		uploaded = append(uploaded, image)
	}

	utils.Created(ctx, gin.H{
		"count":  len(uploaded),
		"images": uploaded,
	})
}

// ListImages returns all catalog images, newest first.
func (i *ImageController) ListImages(ctx *gin.Context) {
	var images []models.Image
	if err := i.db.Order("created_at DESC").Find(&images).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to list images")
		return
	}
	utils.Success(ctx, images)
}

// UpdateImage applies a merge-patch over jewelry_id, order_index, description
// and description_en. The payload is inspected as a map so an explicit
// `"jewelry_id": null` detaches the image while an absent key leaves it alone.
func (i *ImageController) UpdateImage(ctx *gin.Context) {
	var image models.Image
	if err := i.db.First(&image, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40411, "image not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load image")
		return
	}

	var data map[string]any
	if err := ctx.ShouldBindJSON(&data); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid request payload")
		return
	}

	updates := map[string]interface{}{}
	if v, ok := data["jewelry_id"]; ok {
		if v == nil {
			updates["jewelry_id"] = nil
		} else if f, ok := v.(float64); ok {
			updates["jewelry_id"] = uint(f)
		}
	}
	if v, ok := data["order_index"]; ok {
		if f, ok := v.(float64); ok {
			updates["order_index"] = int(f)
		}
	}
	if v, ok := data["description"]; ok {
		if s, ok := v.(string); ok {
			updates["description"] = utils.Sanitize(s)
		}
	}
	if v, ok := data["description_en"]; ok {
		if s, ok := v.(string); ok {
			updates["description_en"] = utils.Sanitize(s)
		}
	}

	if len(updates) > 0 {
		if err := i.db.Model(&image).Updates(updates).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to update image")
			return
		}
	}

	if err := i.db.First(&image, image.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load image")
		return
	}
	utils.Success(ctx, image)
}

// DeleteImage removes the record plus the stored main asset and thumbnail.
// Missing files are ignored so cleanup stays idempotent.
func (i *ImageController) DeleteImage(ctx *gin.Context) {
	var image models.Image
	if err := i.db.First(&image, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40411, "image not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load image")
		return
	}

	if err := i.db.Delete(&image).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to delete image")
		return
	}

	removeAssetFiles(config.Get().UploadDir, image.Filename)

	utils.Success(ctx, gin.H{"message": "image deleted"})
}

// removeAssetFiles deletes the stored main asset and its thumbnail, ignoring
// files that are already gone.
func removeAssetFiles(uploadDir, filename string) {
	if filename == "" {
		return
	}
	_ = os.Remove(filepath.Join(uploadDir, filename))
	_ = os.Remove(filepath.Join(uploadDir, utils.ThumbName(filename)))
}
