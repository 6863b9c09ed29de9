package controllers

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/anlan/pearlcms/config"
	"github.com/anlan/pearlcms/models"
)

func imageRouter(db *gorm.DB) *gin.Engine {
	ctrl := NewImageController(db)
	r := gin.New()
	r.POST("/api/upload", ctrl.UploadImages)
	r.GET("/api/images", ctrl.ListImages)
	r.PUT("/api/images/:id", ctrl.UpdateImage)
	r.DELETE("/api/images/:id", ctrl.DeleteImage)
	return r
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 180, B: 160, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type uploadPart struct {
	field    string
	filename string
	content  []byte
}

func doMultipart(t *testing.T, r *gin.Engine, path string, parts []uploadPart, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, p := range parts {
		fw, err := mw.CreateFormFile(p.field, p.filename)
		require.NoError(t, err)
		_, err = fw.Write(p.content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadImages(t *testing.T) {
	db := newTestDB(t)
	r := imageRouter(db)

	w := doMultipart(t, r, "/api/upload", []uploadPart{
		{field: "images", filename: "ring.png", content: pngBytes(t, 1600, 900)},
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var data struct {
		Count  int            `json:"count"`
		Images []models.Image `json:"images"`
	}
	decodeData(t, w, &data)
	require.Equal(t, 1, data.Count)

	img := data.Images[0]
	assert.True(t, strings.HasSuffix(img.Filename, ".jpg"), "png is re-encoded as jpg")
	assert.Equal(t, "ring.png", img.OriginalName)
	assert.Equal(t, "/uploads/"+img.Filename, img.Path)
	assert.Equal(t, "/uploads/thumb_"+img.Filename, img.ThumbPath)
	assert.Nil(t, img.JewelryID)

	uploadDir := config.Get().UploadDir
	_, err := os.Stat(filepath.Join(uploadDir, img.Filename))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(uploadDir, "thumb_"+img.Filename))
	assert.NoError(t, err)
}

func TestUploadImagesAttachesToJewelry(t *testing.T) {
	db := newTestDB(t)
	item := models.Jewelry{Name: "戒指", IsVisible: true}
	require.NoError(t, db.Create(&item).Error)
	r := imageRouter(db)

	w := doMultipart(t, r, "/api/upload", []uploadPart{
		{field: "images", filename: "a.png", content: pngBytes(t, 100, 100)},
	}, map[string]string{"jewelry_id": "1"})
	require.Equal(t, http.StatusCreated, w.Code)

	var data struct {
		Images []models.Image `json:"images"`
	}
	decodeData(t, w, &data)
	require.Len(t, data.Images, 1)
	require.NotNil(t, data.Images[0].JewelryID)
	assert.Equal(t, uint(1), *data.Images[0].JewelryID)
}

func TestUploadImagesSkipsDisallowedFormats(t *testing.T) {
	db := newTestDB(t)
	r := imageRouter(db)

	w := doMultipart(t, r, "/api/upload", []uploadPart{
		{field: "images", filename: "notes.txt", content: []byte("hello")},
		{field: "images", filename: "ok.png", content: pngBytes(t, 50, 50)},
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var data struct {
		Count int `json:"count"`
	}
	decodeData(t, w, &data)
	assert.Equal(t, 1, data.Count)

	var count int64
	db.Model(&models.Image{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUploadImagesKeepsOriginalWhenTranscodeFails(t *testing.T) {
	db := newTestDB(t)
	r := imageRouter(db)

	// valid extension, invalid content: stored as-is, no thumbnail
	w := doMultipart(t, r, "/api/upload", []uploadPart{
		{field: "images", filename: "broken.jpg", content: []byte("not an image")},
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var data struct {
		Count  int            `json:"count"`
		Images []models.Image `json:"images"`
	}
	decodeData(t, w, &data)
	require.Equal(t, 1, data.Count)
	assert.Empty(t, data.Images[0].ThumbPath)

	_, err := os.Stat(filepath.Join(config.Get().UploadDir, data.Images[0].Filename))
	assert.NoError(t, err)
}

func TestUploadImagesRejectsEmptyBatch(t *testing.T) {
	db := newTestDB(t)
	r := imageRouter(db)

	w := doMultipart(t, r, "/api/upload", nil, map[string]string{"jewelry_id": "1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateImageDetachExplicitNull(t *testing.T) {
	db := newTestDB(t)
	item := models.Jewelry{Name: "项链", IsVisible: true}
	require.NoError(t, db.Create(&item).Error)
	require.NoError(t, db.Create(&models.Image{
		Filename: "x.jpg", Path: "/uploads/x.jpg", JewelryID: &item.ID, Description: "keep me",
	}).Error)
	r := imageRouter(db)

	// absent jewelry_id key leaves the attachment alone
	w := doJSON(t, r, http.MethodPut, "/api/images/1", gin.H{"order_index": 3}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Image
	decodeData(t, w, &got)
	require.NotNil(t, got.JewelryID)
	assert.Equal(t, 3, got.OrderIndex)
	assert.Equal(t, "keep me", got.Description)

	// explicit null detaches
	w = doJSON(t, r, http.MethodPut, "/api/images/1", map[string]interface{}{"jewelry_id": nil}, "")
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &got)
	assert.Nil(t, got.JewelryID)
	assert.Equal(t, "keep me", got.Description)
}

func TestDeleteImageIdempotentFiles(t *testing.T) {
	db := newTestDB(t)
	uploadDir := config.Get().UploadDir
	require.NoError(t, os.MkdirAll(uploadDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(uploadDir, "gone.jpg"), []byte("x"), 0o644))
	require.NoError(t, db.Create(&models.Image{Filename: "gone.jpg", Path: "/uploads/gone.jpg"}).Error)
	// no thumbnail on disk; delete must still succeed
	r := imageRouter(db)

	w := doJSON(t, r, http.MethodDelete, "/api/images/1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	// record gone, second delete is a 404
	w = doJSON(t, r, http.MethodDelete, "/api/images/1", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListImagesNewestFirst(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.Image{Filename: "old.jpg", Path: "/uploads/old.jpg"}).Error)
	require.NoError(t, db.Exec("UPDATE images SET created_at = datetime('now', '-1 day') WHERE filename = 'old.jpg'").Error)
	require.NoError(t, db.Create(&models.Image{Filename: "new.jpg", Path: "/uploads/new.jpg"}).Error)
	r := imageRouter(db)

	w := doJSON(t, r, http.MethodGet, "/api/images", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var images []models.Image
	decodeData(t, w, &images)
	require.Len(t, images, 2)
	assert.Equal(t, "new.jpg", images[0].Filename)
}
