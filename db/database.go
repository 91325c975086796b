package db

import (
	"os"
	"path/filepath"
	"strings"

	"jungadmin/config"
	"jungadmin/logger"
	"jungadmin/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDatabase(cfg config.Config) {
	var err error

	switch cfg.DatabaseDriver {
	case "postgres":
		DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	default:
		dbPath := cfg.DatabaseDSN
		// Plain file paths get created up front; file: URIs are left to the driver.
		if !strings.HasPrefix(dbPath, "file:") {
			dir := filepath.Dir(dbPath)
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					logger.L.WithError(err).Fatal("failed to create database directory")
				}
			}
			if _, err := os.Stat(dbPath); os.IsNotExist(err) {
				logger.L.WithField("path", dbPath).Info("database file does not exist, creating")
				file, err := os.Create(dbPath)
				if err != nil {
					logger.L.WithError(err).Fatal("failed to create database file")
				}
				file.Close()
			}
		}
		DB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	}
	if err != nil {
		logger.L.WithError(err).Fatal("failed to connect to database")
	}
	logger.L.WithField("driver", cfg.DatabaseDriver).Info("database connected")

	// Auto migrate the schema
	if err := DB.AutoMigrate(
		&models.User{}, &models.Product{}, &models.Category{},
		&models.Question{}, &models.Answer{}, &models.ProductAnswer{},
	); err != nil {
		logger.L.WithError(err).Fatal("failed to migrate database schema")
	}
}
