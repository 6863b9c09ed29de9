package utils

import (
	"os"
	"path/filepath"

	"gorm.io/gorm"

	"github.com/anlan/pearlcms/config"
	"github.com/anlan/pearlcms/models"
)

// StartThumbnailBackfill runs one best-effort pass in the background deriving
// thumbnail files for records that predate thumbnailing. Failures are logged
// and skipped; records whose main file is missing are left alone.
func StartThumbnailBackfill(db *gorm.DB) {
	go func() {
		cfg := config.Get()

		var images []models.Image
		if err := db.Where("thumb_path = '' OR thumb_path IS NULL").Find(&images).Error; err == nil {
			for _, img := range images {
				thumb, ok := backfillOne(cfg, img.Filename)
				if !ok {
					continue
				}
				_ = db.Model(&models.Image{}).Where("id = ?", img.ID).
					Update("thumb_path", PublicPath(thumb)).Error
			}
		}

		var gallery []models.GalleryImage
		if err := db.Where("thumb_path = '' OR thumb_path IS NULL").Find(&gallery).Error; err == nil {
			for _, img := range gallery {
				thumb, ok := backfillOne(cfg, img.Filename)
				if !ok {
					continue
				}
				_ = db.Model(&models.GalleryImage{}).Where("id = ?", img.ID).
					Update("thumb_path", PublicPath(thumb)).Error
			}
		}
	}()
}

func backfillOne(cfg config.AppConfig, filename string) (string, bool) {
	srcPath := filepath.Join(cfg.UploadDir, filename)
	if _, err := os.Stat(srcPath); err != nil {
		return "", false
	}
	thumbName := ThumbName(filename)
	if _, err := os.Stat(filepath.Join(cfg.UploadDir, thumbName)); err == nil {
		return thumbName, true // file already there, only the record was missing it
	}

	img, err := ThumbFromFile(srcPath, cfg.ThumbMaxDim)
	if err != nil {
		if Sugar != nil {
			Sugar.Warnf("thumbnail backfill skipped %s: %v", filename, err)
		}
		return "", false
	}
	if err := saveJPEG(img, filepath.Join(cfg.UploadDir, thumbName), cfg.ThumbQuality); err != nil {
		if Sugar != nil {
			Sugar.Warnf("thumbnail backfill write failed %s: %v", filename, err)
		}
		return "", false
	}
	return thumbName, true
}
