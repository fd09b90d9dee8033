package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// MaxUploadAuthTTL is the longest window the media host accepts a signed
// upload timestamp for.
const MaxUploadAuthTTL = time.Hour

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	MongoDBURI       string
	MongoDBPassword  string
	MongoDBDatabase  string
	MongoDBOpTimeout time.Duration

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	UploadAuthTTL       time.Duration
	MaxUploadBytes      int64

	CORSAllowedOrigins []string

	// Bearer auth on write routes is enabled when either is set.
	AuthJWKSURL   string
	AuthJWTSecret string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:                getEnvWithDefault("PORT", "8080"),
		Environment:         getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:            getEnvWithDefault("LOG_LEVEL", "info"),
		MongoDBURI:          os.Getenv("MONGODB_URI"),
		MongoDBPassword:     os.Getenv("MONGODB_PASSWORD"),
		MongoDBDatabase:     getEnvWithDefault("MONGODB_DATABASE", "evently"),
		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		CORSAllowedOrigins:  splitList(getEnvWithDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		AuthJWKSURL:         os.Getenv("AUTH_JWKS_URL"),
		AuthJWTSecret:       os.Getenv("AUTH_JWT_SECRET"),
	}

	var err error
	if cfg.MongoDBOpTimeout, err = getDurationWithDefault("MONGODB_OP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.UploadAuthTTL, err = getDurationWithDefault("UPLOAD_AUTH_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.MaxUploadBytes, err = getInt64WithDefault("MAX_UPLOAD_BYTES", 10<<20); err != nil {
		return nil, err
	}

	// Validate required fields
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if strings.Contains(cfg.MongoDBURI, "<password>") && cfg.MongoDBPassword == "" {
		return nil, fmt.Errorf("MONGODB_PASSWORD is required when MONGODB_URI contains <password>")
	}
	if cfg.CloudinaryCloudName == "" {
		return nil, fmt.Errorf("CLOUDINARY_CLOUD_NAME is required")
	}
	if cfg.CloudinaryAPIKey == "" {
		return nil, fmt.Errorf("CLOUDINARY_API_KEY is required")
	}
	if cfg.CloudinaryAPISecret == "" {
		return nil, fmt.Errorf("CLOUDINARY_API_SECRET is required")
	}
	if cfg.UploadAuthTTL <= 0 || cfg.UploadAuthTTL > MaxUploadAuthTTL {
		return nil, fmt.Errorf("UPLOAD_AUTH_TTL must be between 1s and %s", MaxUploadAuthTTL)
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return nil, fmt.Errorf("CORS_ALLOWED_ORIGINS must list at least one origin")
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}

	return cfg, nil
}

// MongoDBConnectionURI returns the URI with the <password> placeholder filled in.
func (c *Config) MongoDBConnectionURI() string {
	return strings.Replace(c.MongoDBURI, "<password>", c.MongoDBPassword, 1)
}

func (c *Config) AuthEnabled() bool {
	return c.AuthJWKSURL != "" || c.AuthJWTSecret != ""
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationWithDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt64WithDefault(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
