package routes

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/anlan/pearlcms/config"
	"github.com/anlan/pearlcms/controllers"
	"github.com/anlan/pearlcms/middleware"
	"github.com/anlan/pearlcms/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	// Load config and set Gin mode from configuration
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}

	r.Use(cors.New(corsCfg))

	r.Static("/uploads", cfg.UploadDir)

	authController := controllers.NewAuthController(db)
	jewelryController := controllers.NewJewelryController(db)
	imageController := controllers.NewImageController(db)
	galleryController := controllers.NewGalleryController(db)
	pageController := controllers.NewPageController(db)
	adminController := controllers.NewAdminController(db)
	analyticsController := controllers.NewAnalyticsController(db)
	translateController := controllers.NewTranslateController()

	api := r.Group("/api")

	api.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	// Grey placeholder used by the frontend while images load.
	api.GET("/placeholder/:name", func(ctx *gin.Context) {
		svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="400" height="400"><rect width="100%%" height="100%%" fill="#e8e4df"/><text x="50%%" y="50%%" dominant-baseline="middle" text-anchor="middle" fill="#a39d93" font-family="sans-serif" font-size="16">%s</text></svg>`, ctx.Param("name"))
		ctx.Data(http.StatusOK, "image/svg+xml", []byte(svg))
	})

	authGroup := api.Group("/auth")
	authGroup.POST("/login", middleware.RateLimitMiddleware(), authController.Login)
	authGroup.POST("/change-password", middleware.AuthRequired(), authController.ChangePassword)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	jewelryGroup := api.Group("/jewelry")
	jewelryGroup.GET("", jewelryController.ListJewelry)
	jewelryGroup.GET("/:id", jewelryController.GetJewelry)
	jewelryGroup.POST("", middleware.AuthRequired(), jewelryController.CreateJewelry)
	jewelryGroup.PUT("/:id", middleware.AuthRequired(), jewelryController.UpdateJewelry)
	jewelryGroup.DELETE("/:id", middleware.AuthRequired(), jewelryController.DeleteJewelry)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired())
	protected.POST("/upload", imageController.UploadImages)
	protected.GET("/images", imageController.ListImages)
	protected.PUT("/images/:id", imageController.UpdateImage)
	protected.DELETE("/images/:id", imageController.DeleteImage)

	galleryGroup := api.Group("/gallery")
	galleryGroup.GET("", galleryController.ListGallery)
	galleryGroup.GET("/all", middleware.AuthRequired(), galleryController.ListAllGallery)
	galleryGroup.POST("/upload", middleware.AuthRequired(), galleryController.UploadGalleryImage)
	galleryGroup.PUT("/:id", middleware.AuthRequired(), galleryController.UpdateGalleryImage)
	galleryGroup.DELETE("/:id", middleware.AuthRequired(), galleryController.DeleteGalleryImage)
	galleryGroup.POST("/reorder", middleware.AuthRequired(), galleryController.ReorderGallery)

	pagesGroup := api.Group("/pages")
	pagesGroup.GET("", middleware.AuthRequired(), pageController.ListPages)
	pagesGroup.GET("/:page_key", pageController.GetPage)
	pagesGroup.PUT("/:page_key", middleware.AuthRequired(), pageController.UpdatePage)

	api.GET("/admin/stats", middleware.AuthRequired(), adminController.GetStats)

	analyticsGroup := api.Group("/analytics")
	analyticsGroup.POST("/track", analyticsController.Track)
	analyticsGroup.GET("/stats", middleware.AuthRequired(), analyticsController.GetStats)

	api.POST("/translate", middleware.AuthRequired(), translateController.Translate)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
