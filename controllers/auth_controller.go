package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/anlan/pearlcms/middleware"
	"github.com/anlan/pearlcms/models"
	"github.com/anlan/pearlcms/utils"
)

const tokenDuration = 72 * time.Hour

// AuthController handles admin authentication endpoints.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Login verifies admin credentials and issues a bearer token.
func (a *AuthController) Login(ctx *gin.Context) {
	type request struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "username and password are required")
		return
	}

	var admin models.Admin
	if err := a.db.Where("username = ?", req.Username).First(&admin).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}

	if !utils.CheckPassword(admin.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}

	token, err := utils.GenerateToken(admin.ID, admin.Username, tokenDuration)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{
		"token": token,
		"user":  admin,
	})
}

// ChangePassword replaces the admin password after verifying the old one.
func (a *AuthController) ChangePassword(ctx *gin.Context) {
	type request struct {
		OldPassword string `json:"oldPassword" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, "old and new password are required")
		return
	}

	adminID, ok := getAdminID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var admin models.Admin
	if err := a.db.First(&admin, adminID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "admin not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50005, "failed to load admin")
		return
	}

	if !utils.CheckPassword(admin.PasswordHash, req.OldPassword) {
		utils.Error(ctx, http.StatusBadRequest, 40003, "old password is incorrect")
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50006, "failed to hash password")
		return
	}

	if err := a.db.Model(&admin).Update("password_hash", hash).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50007, "failed to update password")
		return
	}

	utils.Success(ctx, gin.H{"message": "password changed"})
}

// Logout revokes the presented token until its natural expiry.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "invalid authorization header")
		return
	}

	token := strings.TrimSpace(parts[1])
	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	expiresAt := time.Now().Add(tokenDuration)
	if claims.RegisteredClaims.ExpiresAt != nil {
		expiresAt = claims.RegisteredClaims.ExpiresAt.Time
	}

	utils.BlacklistToken(token, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the admin resolved from the verified token claims.
func (a *AuthController) Me(ctx *gin.Context) {
	adminID, ok := getAdminID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var admin models.Admin
	if err := a.db.First(&admin, adminID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "admin not found")
		return
	}

	utils.Success(ctx, gin.H{"user": admin})
}

func getAdminID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextAdminIDKey)
	if !exists {
		return 0, false
	}

	id, ok := value.(uint)
	return id, ok
}
