package main

import (
	"github.com/anlan/pearlcms/config"
	"github.com/anlan/pearlcms/models"
	"github.com/anlan/pearlcms/routes"
	"github.com/anlan/pearlcms/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.Admin{},
		&models.Jewelry{},
		&models.Image{},
		&models.GalleryImage{},
		&models.Page{},
		&models.PageView{},
	)
	if err := config.SeedDefaults(db); err != nil {
		utils.Sugar.Fatalf("failed to seed defaults: %v", err)
	}

	r := routes.SetupRouter(db)

	// Fill in thumbnails for images uploaded before thumbnails existed
	utils.StartThumbnailBackfill(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
