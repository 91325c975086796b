package main

import (
	"os"

	"jungadmin/config"
	"jungadmin/db"
	"jungadmin/logger"
	"jungadmin/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	logger.Init("jung-admin")

	cfg := config.Load()

	// Initialize database
	db.InitDatabase(cfg)

	// Create uploads directory if it doesn't exist
	if _, err := os.Stat(cfg.UploadDir); os.IsNotExist(err) {
		os.Mkdir(cfg.UploadDir, 0755)
	}

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(fiberlogger.New())
	app.Use(cors.New())

	// Serve uploaded images
	app.Static("/uploads", "./"+cfg.UploadDir)

	// Setup routes
	routes.SetupRoutes(app)

	// Start server
	logger.L.WithField("port", cfg.Port).Info("starting server")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.L.WithError(err).Fatal("server stopped")
	}
}
