package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Host        string
	Port        string
	DatabaseURL string
	JWTSecret   string
	JWTTTL      time.Duration
	S3Enabled   bool
	S3Bucket    string
	AWSRegion   string
	UploadDir   string
	MaxUpload   int64
	CORSOrigins []string
}

// Load reads configuration from the environment and performs minimal validation.
// DATABASE_URL and JWT_SECRET are startup requirements; everything else has a
// default.
func Load() (Config, error) {
	cfg := Config{
		Host:        fallback(os.Getenv("HOST"), "127.0.0.1"),
		Port:        fallback(os.Getenv("PORT"), "8080"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:   strings.TrimSpace(os.Getenv("JWT_SECRET")),
		S3Bucket:    fallback(os.Getenv("S3_BUCKET_NAME"), "kitchen-hand-guide"),
		AWSRegion:   fallback(os.Getenv("AWS_REGION"), "ap-southeast-2"),
		UploadDir:   fallback(os.Getenv("UPLOAD_DIR"), "./static/uploads"),
		CORSOrigins: parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
	}

	hours := fallback(os.Getenv("JWT_EXPIRATION_HOURS"), "24")
	if ttlHours, err := strconv.Atoi(hours); err == nil && ttlHours > 0 {
		cfg.JWTTTL = time.Duration(ttlHours) * time.Hour
	} else {
		cfg.JWTTTL = 24 * time.Hour
	}

	if enabled, err := strconv.ParseBool(fallback(os.Getenv("S3_ENABLED"), "false")); err == nil {
		cfg.S3Enabled = enabled
	}

	maxBytes := fallback(os.Getenv("MAX_UPLOAD_BYTES"), "")
	if n, err := strconv.ParseInt(maxBytes, 10, 64); err == nil && n > 0 {
		cfg.MaxUpload = n
	} else {
		cfg.MaxUpload = 20 << 20
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
