package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	minPollInterval = 3 * time.Second
	maxPollInterval = 10 * time.Second
)

// Config holds all application configuration
type Config struct {
	Environment string
	Port        string
	LogLevel    string

	DatabasePath string // empty uses the per-user data directory
	Timezone     *time.Location

	// Role registry
	RolesFile  string
	AdminRoles []string

	RedisURL string // empty disables pub/sub

	// Clients poll instead of receiving pushes
	PollInterval time.Duration

	NotificationRetentionDays int

	AllowedOrigins string
}

// Load loads configuration from environment variables with defaults
func Load() (*Config, error) {
	tzName := getEnv("TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tzName, err)
	}

	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "3001"),
		LogLevel:    getEnv("LOG_LEVEL", ""),

		DatabasePath: getEnv("DATABASE_PATH", ""),
		Timezone:     loc,

		RolesFile:  getEnv("ROLES_FILE", ""),
		AdminRoles: splitList(getEnv("ADMIN_ROLES", "admin")),

		RedisURL: getEnv("REDIS_URL", ""),

		PollInterval: ClampPollInterval(getDurationEnv("POLL_INTERVAL", 5*time.Second)),

		NotificationRetentionDays: getIntEnv("NOTIFICATION_RETENTION_DAYS", 30),

		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
	}, nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// ClampPollInterval keeps the client refresh interval within 3 to 10 seconds
func ClampPollInterval(d time.Duration) time.Duration {
	if d < minPollInterval {
		return minPollInterval
	}
	if d > maxPollInterval {
		return maxPollInterval
	}
	return d
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getDurationEnv accepts Go durations ("5s") or a bare number of seconds
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
