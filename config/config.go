package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Server
	Port string
	Env  string // "development" or "production"

	// Database
	DBFile string

	// Sessions
	SessionSecret string

	// Admin bootstrap account
	AdminEmail    string
	AdminPassword string

	// Uploads
	UploadDir         string
	FallbackUploadDir string
	MaxUploadSize     int64 // bytes

	// Rendered fragment cache
	CacheDir string

	// Public site
	Domain string

	// Logging
	LogLevel string
}

// Load reads configuration from the environment, loading a .env file first
// if one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("ENV", "development"),
		DBFile:            getEnv("SQLITE_DB", "devfolio.db"),
		SessionSecret:     os.Getenv("SESSION_SECRET"),
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		UploadDir:         getEnv("UPLOAD_DIR", "./data/uploads"),
		FallbackUploadDir: getEnv("FALLBACK_UPLOAD_DIR", "./public/uploads"),
		MaxUploadSize:     getInt64Env("MAX_UPLOAD_SIZE", 5*1024*1024),
		CacheDir:          getEnv("CACHE_DIR", "./cache"),
		Domain:            getEnv("DOMAIN", "http://localhost:8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.DBFile == "" {
		return fmt.Errorf("SQLITE_DB is required")
	}
	return nil
}

// IsProduction reports whether the app runs with production behavior
// (suppressed error details, JSON logs).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}
