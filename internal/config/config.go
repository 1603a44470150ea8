package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// DatabaseConfig holds PostgreSQL database connection settings.
// The database is optional; an empty Host disables build records and snapshots.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int `validate:"gte=0"`
	MaxIdleConns       int `validate:"gte=0"`
	ConnMaxLifetimeSec int `validate:"gte=0"`
}

// Enabled reports whether a database was configured.
func (c DatabaseConfig) Enabled() bool { return c.Host != "" }

// MinIOConfig holds object storage settings for publishing builds.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PresignTTLMin is the lifetime of preview links handed out for published builds.
	PresignTTLMin int `validate:"gte=0"`
}

// PresignTTL returns the preview link lifetime, 15 minutes by default.
func (c MinIOConfig) PresignTTL() time.Duration {
	if c.PresignTTLMin <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(c.PresignTTLMin) * time.Minute
}

// Enabled reports whether object storage was configured.
func (c MinIOConfig) Enabled() bool { return c.Endpoint != "" }

// CatalogConfig points at the public catalog API.
type CatalogConfig struct {
	BaseURL    string `validate:"omitempty,url"`
	TimeoutSec int    `validate:"gt=0"`
}

// Timeout returns the per-endpoint fetch timeout.
func (c CatalogConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// SiteConfig controls prerendering and static serving.
type SiteConfig struct {
	// URL overrides the company profile URL as the canonical origin when set.
	URL             string `validate:"omitempty,url"`
	DistDir         string `validate:"required"`
	TemplatePath    string
	CompanyFile     string
	RebuildSchedule string
	Timezone        string `validate:"required"`
}

// Template returns the SPA shell path, defaulting to <dist>/index.html.
func (c SiteConfig) Template() string {
	if c.TemplatePath != "" {
		return c.TemplatePath
	}
	return c.DistDir + "/index.html"
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string `validate:"required,numeric"`
	LogLevel string `validate:"oneof=debug info warn error"`
	Site     SiteConfig
	Catalog  CatalogConfig
	Database DatabaseConfig
	MinIO    MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:  getEnv("APP_HOST", "localhost:8080"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Site: SiteConfig{
			URL:             getEnv("SITE_URL", ""),
			DistDir:         getEnv("SITE_DIST_DIR", "dist"),
			TemplatePath:    getEnv("SITE_TEMPLATE", ""),
			CompanyFile:     getEnv("SITE_COMPANY_FILE", ""),
			RebuildSchedule: getEnv("SITE_REBUILD_SCHEDULE", ""),
			Timezone:        getEnv("SITE_TIMEZONE", "America/New_York"),
		},
		Catalog: CatalogConfig{
			BaseURL:    getEnv("CATALOG_API_URL", ""),
			TimeoutSec: getEnvInt("CATALOG_TIMEOUT_SEC", 10),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),

			PresignTTLMin: getEnvInt("MINIO_PRESIGN_TTL_MIN", 15),
		},
	}
}

// Validate checks the struct tags and the site timezone.
func (c *AppConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := time.LoadLocation(c.Site.Timezone); err != nil {
		return fmt.Errorf("invalid config: timezone %q: %w", c.Site.Timezone, err)
	}
	return nil
}

// Location returns the site timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Site.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
