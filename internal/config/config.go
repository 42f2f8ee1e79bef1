package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all runtime settings. Everything comes from environment
// variables with development-friendly fallbacks.
type Config struct {
	Port      string
	DBPath    string
	UploadDir string

	// Admin user seeded at startup
	AdminUsername string
	AdminPassword string

	// Rate limiter quotas
	GeneralLimit  int
	GeneralWindow time.Duration
	StrictLimit   int
	StrictWindow  time.Duration
	BotLimit      int
	BotWindow     time.Duration

	// Cache TTLs
	ProductCacheTTL time.Duration
	APICacheTTL     time.Duration
	SweepInterval   time.Duration

	// Upload retention
	UploadMaxFiles int
	UploadMaxBytes int64
}

// Load builds a Config from the environment.
func Load() Config {
	return Config{
		Port:      getEnv("PORT", "8080"),
		DBPath:    getEnv("DB_PATH", "product-catalog.db"),
		UploadDir: getEnv("UPLOAD_DIR", "uploads"),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),

		GeneralLimit:  getEnvInt("RATE_LIMIT_GENERAL", 100),
		GeneralWindow: getEnvDuration("RATE_WINDOW_GENERAL", 15*time.Minute),
		StrictLimit:   getEnvInt("RATE_LIMIT_STRICT", 10),
		StrictWindow:  getEnvDuration("RATE_WINDOW_STRICT", time.Minute),
		BotLimit:      getEnvInt("RATE_LIMIT_BOT", 50),
		BotWindow:     getEnvDuration("RATE_WINDOW_BOT", time.Minute),

		ProductCacheTTL: getEnvDuration("PRODUCT_CACHE_TTL", 5*time.Minute),
		APICacheTTL:     getEnvDuration("API_CACHE_TTL", time.Minute),
		SweepInterval:   getEnvDuration("SWEEP_INTERVAL", time.Minute),

		UploadMaxFiles: getEnvInt("UPLOAD_MAX_FILES", 50),
		UploadMaxBytes: int64(getEnvInt("UPLOAD_MAX_BYTES", 5<<20)),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
