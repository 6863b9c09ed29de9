package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/anlan/pearlcms/config"
	"github.com/anlan/pearlcms/models"
	"github.com/anlan/pearlcms/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	dir, err := os.MkdirTemp("", "pearlcms-test")
	if err != nil {
		panic(err)
	}
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("GIN_MODE", "test")
	os.Setenv("UPLOAD_DIR", filepath.Join(dir, "uploads"))
	os.Setenv("LOG_PATH", filepath.Join(dir, "logs", "app.log"))
	os.Setenv("GIN_PATH", filepath.Join(dir, "logs", "gin.log"))

	cfg := config.Load()
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Admin{},
		&models.Jewelry{},
		&models.Image{},
		&models.GalleryImage{},
		&models.Page{},
		&models.PageView{},
	))
	return db
}

func seedAdmin(t *testing.T, db *gorm.DB) models.Admin {
	t.Helper()
	hash, err := utils.HashPassword("pearl2024")
	require.NoError(t, err)
	admin := models.Admin{Username: "admin", PasswordHash: hash}
	require.NoError(t, db.Create(&admin).Error)
	return admin
}

// tokenSeq makes each issued test token unique even within the same second,
// so revoking one token cannot affect another test.
var tokenSeq atomic.Int64

func adminToken(t *testing.T) string {
	t.Helper()
	extra := time.Duration(tokenSeq.Add(1)) * time.Second
	token, err := utils.GenerateToken(1, "admin", time.Hour+extra)
	require.NoError(t, err)
	return token
}

type apiEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, out))
}
