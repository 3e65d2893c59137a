package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration parameters of the application.
type Config struct {
	DatabaseURL string
	AdminCode   string
	UploadDir   string
	ServerPort  int

	// Optional S3-compatible blob storage. When S3Bucket is set the server
	// stores uploads in the bucket instead of UploadDir.
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Bucket          string
}

// S3Enabled reports whether submissions should be stored in an S3-compatible
// bucket rather than the local upload directory.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != ""
}

// Load reads configuration from environment variables. A .env file is loaded
// first if present (useful for local development); a missing file is not an
// error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	adminCode := os.Getenv("ADMIN_CODE")
	if adminCode == "" {
		return nil, fmt.Errorf("ADMIN_CODE environment variable is not set")
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	cfg := &Config{
		DatabaseURL:       dbURL,
		AdminCode:         adminCode,
		UploadDir:         uploadDir,
		ServerPort:        port,
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3Bucket:          os.Getenv("S3_BUCKET"),
	}

	if cfg.S3Enabled() {
		if cfg.S3Endpoint == "" || cfg.S3AccessKeyID == "" || cfg.S3SecretAccessKey == "" {
			return nil, fmt.Errorf("S3_BUCKET is set but S3_ENDPOINT, S3_ACCESS_KEY_ID or S3_SECRET_ACCESS_KEY is missing")
		}
	}

	return cfg, nil
}
