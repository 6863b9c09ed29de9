package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/anlan/pearlcms/models"
)

func galleryRouter(db *gorm.DB) *gin.Engine {
	ctrl := NewGalleryController(db)
	r := gin.New()
	g := r.Group("/api/gallery")
	g.GET("", ctrl.ListGallery)
	g.GET("/all", ctrl.ListAllGallery)
	g.POST("/upload", ctrl.UploadGalleryImage)
	g.PUT("/:id", ctrl.UpdateGalleryImage)
	g.DELETE("/:id", ctrl.DeleteGalleryImage)
	g.POST("/reorder", ctrl.ReorderGallery)
	return r
}

func seedGallery(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&models.GalleryImage{Filename: "g1.jpg", Path: "/uploads/g1.jpg", OrderIndex: 1, IsVisible: true}).Error)
	require.NoError(t, db.Create(&models.GalleryImage{Filename: "g2.jpg", Path: "/uploads/g2.jpg", OrderIndex: 2, IsVisible: false}).Error)
	require.NoError(t, db.Create(&models.GalleryImage{Filename: "g3.jpg", Path: "/uploads/g3.jpg", OrderIndex: 3, IsVisible: true}).Error)
}

func TestListGalleryHidesInvisible(t *testing.T) {
	db := newTestDB(t)
	seedGallery(t, db)
	r := galleryRouter(db)

	w := doJSON(t, r, http.MethodGet, "/api/gallery", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var images []models.GalleryImage
	decodeData(t, w, &images)
	require.Len(t, images, 2)
	assert.Equal(t, "g1.jpg", images[0].Filename)
	assert.Equal(t, "g3.jpg", images[1].Filename)

	w = doJSON(t, r, http.MethodGet, "/api/gallery/all", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &images)
	assert.Len(t, images, 3)
}

func TestUploadGalleryImageAppendsToOrder(t *testing.T) {
	db := newTestDB(t)
	seedGallery(t, db)
	r := galleryRouter(db)

	w := doMultipart(t, r, "/api/gallery/upload", []uploadPart{
		{field: "image", filename: "banner.png", content: pngBytes(t, 800, 300)},
	}, map[string]string{"title": "首页横幅", "title_en": "Banner", "alt": "pearl banner"})
	require.Equal(t, http.StatusCreated, w.Code)

	var data struct {
		Image models.GalleryImage `json:"image"`
	}
	decodeData(t, w, &data)
	assert.Equal(t, 4, data.Image.OrderIndex, "new entries go after the current maximum")
	assert.True(t, data.Image.IsVisible)
	assert.Equal(t, "首页横幅", data.Image.Title)
	assert.Equal(t, "Banner", data.Image.TitleEn)
	assert.NotEmpty(t, data.Image.ThumbPath)
}

func TestUploadGalleryImageRequiresFile(t *testing.T) {
	db := newTestDB(t)
	r := galleryRouter(db)

	w := doMultipart(t, r, "/api/gallery/upload", nil, map[string]string{"title": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateGalleryImageMergePatch(t *testing.T) {
	db := newTestDB(t)
	seedGallery(t, db)
	r := galleryRouter(db)

	w := doJSON(t, r, http.MethodPut, "/api/gallery/1", gin.H{"title": "新标题"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got models.GalleryImage
	decodeData(t, w, &got)
	assert.Equal(t, "新标题", got.Title)
	assert.Equal(t, 1, got.OrderIndex)
	assert.True(t, got.IsVisible)

	w = doJSON(t, r, http.MethodPut, "/api/gallery/1", gin.H{"is_visible": false}, "")
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &got)
	assert.False(t, got.IsVisible)
	assert.Equal(t, "新标题", got.Title)
}

func TestReorderGalleryAppliesAllAssignments(t *testing.T) {
	db := newTestDB(t)
	seedGallery(t, db)
	r := galleryRouter(db)

	w := doJSON(t, r, http.MethodPost, "/api/gallery/reorder", gin.H{
		"order": []gin.H{
			{"id": 1, "order_index": 30},
			{"id": 2, "order_index": 20},
			{"id": 3, "order_index": 10},
		},
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var images []models.GalleryImage
	require.NoError(t, db.Order("order_index ASC").Find(&images).Error)
	require.Len(t, images, 3)
	assert.Equal(t, "g3.jpg", images[0].Filename)
	assert.Equal(t, "g2.jpg", images[1].Filename)
	assert.Equal(t, "g1.jpg", images[2].Filename)
}

func TestReorderGalleryIgnoresUnknownIDs(t *testing.T) {
	db := newTestDB(t)
	seedGallery(t, db)
	r := galleryRouter(db)

	w := doJSON(t, r, http.MethodPost, "/api/gallery/reorder", gin.H{
		"order": []gin.H{
			{"id": 999, "order_index": 1},
			{"id": 1, "order_index": 5},
		},
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var img models.GalleryImage
	require.NoError(t, db.First(&img, 1).Error)
	assert.Equal(t, 5, img.OrderIndex)
}

func TestDeleteGalleryImage(t *testing.T) {
	db := newTestDB(t)
	seedGallery(t, db)
	r := galleryRouter(db)

	w := doJSON(t, r, http.MethodDelete, "/api/gallery/2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.GalleryImage{}).Count(&count)
	assert.Equal(t, int64(2), count)

	w = doJSON(t, r, http.MethodDelete, "/api/gallery/2", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
