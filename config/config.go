package config

import "os"

type Config struct {
	Port           string
	DatabaseDriver string
	DatabaseDSN    string
	SessionSecret  string
	ServiceKey     string
	UploadDir      string
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by the caller) > default.
func Load() Config {
	return Config{
		Port:           getEnv("PORT", "3000"),
		DatabaseDriver: getEnv("DATABASE_DRIVER", "sqlite"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "database.db"),
		SessionSecret:  getEnv("SESSION_SECRET", "devsessionsecret"),
		ServiceKey:     os.Getenv("SERVICE_KEY"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
