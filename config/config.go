package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	GinMode     string
	LogLevel    string
	FrontendURL string
	// Also allow the localhost dev server origins (CORS_ALLOW_DEV_ORIGINS)
	CORSAllowDevOrigins bool
	// Trusted reverse proxies for client IP resolution (comma separated)
	TrustedProxies []string
	// Persistence: MongoDB takes precedence when MONGODB_URI is set
	DBUrl         string
	DBAutoMigrate bool
	MongoURI      string
	MongoDatabase string
	// Redis (optional, shared rate limiter state)
	RedisURL      string
	RedisPassword string
	// SMTP Configuration
	SMTPHost             string
	SMTPPort             string
	SMTPUsername         string
	SMTPPassword         string
	SMTPFromEmail        string
	NotificationEmailTo  string
	NotifyTimeoutSeconds int
	// Rate Limiting Configuration
	RateLimitWindowSeconds int
	RateLimitMaxRequests   int
	// Intake Configuration
	MaxBodyBytes          int64
	OrderRequireTargeting bool
	// Admin read-only API; disabled when empty
	AdminJWTSecret string
	AdminJWKSURL   string
}

func LoadConfig() (*Config, error) {
	// .env is only present in local development
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "5000"),
		GinMode:        getEnv("GIN_MODE", "release"),
		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
		FrontendURL:    strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		TrustedProxies: getEnvList("TRUSTED_PROXIES"),
		DBUrl:          getEnv("DATABASE_URL", ""),
		DBAutoMigrate:  getEnvBool("DB_AUTO_MIGRATE", false),
		MongoURI:       getEnv("MONGODB_URI", ""),
		MongoDatabase:  getEnv("MONGODB_DATABASE", "b2b-leads"),
		RedisURL:       getEnv("REDIS_URL", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		// SMTP Configuration
		SMTPHost:             getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:             getEnv("SMTP_PORT", "587"),
		SMTPUsername:         getEnv("SMTP_USER", ""),
		SMTPPassword:         getEnv("SMTP_PASS", ""),
		SMTPFromEmail:        getEnv("SMTP_FROM", "noreply@company.com"),
		NotificationEmailTo:  getEnv("NOTIFICATION_EMAIL", "admin@company.com"),
		NotifyTimeoutSeconds: getEnvInt("NOTIFY_TIMEOUT_SECONDS", 10),
		// 10 requests per client per 10 minutes across all intake endpoints
		RateLimitWindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 600),
		RateLimitMaxRequests:   getEnvInt("RATE_LIMIT_MAX_REQUESTS", 10),
		MaxBodyBytes:           int64(getEnvInt("MAX_BODY_BYTES", 10<<20)),
		OrderRequireTargeting:  getEnvBool("ORDER_REQUIRE_TARGETING", false),
		CORSAllowDevOrigins:    getEnvBool("CORS_ALLOW_DEV_ORIGINS", false),
		AdminJWTSecret:         getEnv("ADMIN_JWT_SECRET", ""),
		AdminJWKSURL:           getEnv("ADMIN_JWKS_URL", ""),
	}

	if cfg.DBUrl == "" && cfg.MongoURI == "" {
		log.Println("WARNING: neither MONGODB_URI nor DATABASE_URL is set. Submissions cannot be persisted.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory state.")
	}

	return cfg, nil
}

// RateLimitWindow is the rolling window applied to intake endpoints.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

// NotifyTimeout bounds a single notification delivery attempt.
func (c *Config) NotifyTimeout() time.Duration {
	return time.Duration(c.NotifyTimeoutSeconds) * time.Second
}

// AdminEnabled reports whether any admin token source is configured.
func (c *Config) AdminEnabled() bool {
	return c.AdminJWTSecret != "" || c.AdminJWKSURL != ""
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil && intVal > 0 {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
