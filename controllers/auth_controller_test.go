package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/anlan/pearlcms/middleware"
)

func authRouter(db *gorm.DB) *gin.Engine {
	ctrl := NewAuthController(db)
	r := gin.New()
	auth := r.Group("/api/auth")
	auth.POST("/login", ctrl.Login)
	auth.POST("/change-password", middleware.AuthRequired(), ctrl.ChangePassword)
	auth.POST("/logout", middleware.AuthRequired(), ctrl.Logout)
	auth.GET("/me", middleware.AuthRequired(), ctrl.Me)
	return r
}

func TestLoginSuccess(t *testing.T) {
	db := newTestDB(t)
	seedAdmin(t, db)
	r := authRouter(db)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"username": "admin",
		"password": "pearl2024",
	}, "")

	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	decodeData(t, w, &data)
	assert.NotEmpty(t, data.Token)
	assert.Equal(t, "admin", data.User.Username)
	assert.NotContains(t, w.Body.String(), "password_hash")
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	seedAdmin(t, db)
	r := authRouter(db)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"username": "admin",
		"password": "wrong",
	}, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, 40106, env.Code)
}

func TestLoginUnknownUser(t *testing.T) {
	db := newTestDB(t)
	r := authRouter(db)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"username": "ghost",
		"password": "whatever",
	}, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginMissingFields(t *testing.T) {
	db := newTestDB(t)
	r := authRouter(db)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{"username": "admin"}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	db := newTestDB(t)
	r := authRouter(db)

	w := doJSON(t, r, http.MethodGet, "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", nil, "garbage-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeReturnsCurrentAdmin(t *testing.T) {
	db := newTestDB(t)
	seedAdmin(t, db)
	r := authRouter(db)

	w := doJSON(t, r, http.MethodGet, "/api/auth/me", nil, adminToken(t))
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Username string `json:"username"`
	}
	decodeData(t, w, &data)
	assert.Equal(t, "admin", data.Username)
}

func TestLogoutRevokesToken(t *testing.T) {
	db := newTestDB(t)
	seedAdmin(t, db)
	r := authRouter(db)
	token := adminToken(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChangePassword(t *testing.T) {
	db := newTestDB(t)
	seedAdmin(t, db)
	r := authRouter(db)
	token := adminToken(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/change-password", gin.H{
		"oldPassword": "nope",
		"newPassword": "newsecret",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/change-password", gin.H{
		"oldPassword": "pearl2024",
		"newPassword": "newsecret",
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"username": "admin",
		"password": "newsecret",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"username": "admin",
		"password": "pearl2024",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
