package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort       string
	APIBaseURL       string
	APITimeout       time.Duration
	RedisAddr        string
	RedisDB          int
	RedisPass        string
	SessionTTL       time.Duration
	DeviceSecret     string
	CookieSecure     bool
	MySQLDSN         string
	PropertyCacheTTL time.Duration
	LogLevel         slog.Level
	SwaggerHost      string
}

// Load builds Config from environment with sensible defaults. A .env file in
// the working directory, when present, is loaded first without overriding
// variables that are already set.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		APIBaseURL:       strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8001"), "/"),
		APITimeout:       getEnvDuration("API_TIMEOUT", 10*time.Second),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		RedisPass:        os.Getenv("REDIS_PASSWORD"),
		SessionTTL:       getEnvDuration("SESSION_TTL", 30*24*time.Hour),
		DeviceSecret:     getEnv("DEVICE_SECRET", "change-me"),
		CookieSecure:     getEnvBool("COOKIE_SECURE", false),
		MySQLDSN:         os.Getenv("MYSQL_DSN"),
		PropertyCacheTTL: getEnvDuration("PROPERTY_CACHE_TTL", 30*time.Second),
		LogLevel:         getEnvLevel("LOG_LEVEL", slog.LevelInfo),
		SwaggerHost:      os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvLevel(key string, def slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err == nil {
			return lvl
		}
	}
	return def
}
