// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Optional: when empty
	// the visit snapshot is persisted to SnapshotFile instead.
	DatabaseURL string

	// SnapshotFile is the path of the JSON snapshot used when no database
	// is configured. Defaults to "visits.json".
	SnapshotFile string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// Today pins the reference date used by past-date checks, for demos
	// and reproducible environments. Zero value means the system clock.
	// Set TODAY to a YYYY-MM-DD value to pin it.
	Today time.Time

	// ReminderCron is the five-field cron spec of the reminder sweep.
	// Defaults to every minute.
	ReminderCron string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error when a variable is set to an unparseable value.
func Load() (Config, error) {
	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		SnapshotFile: getEnv("SNAPSHOT_FILE", "visits.json"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		CORSOrigins:  splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		ReminderCron: getEnv("REMINDER_CRON", "* * * * *"),
	}

	if raw := os.Getenv("TODAY"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return Config{}, fmt.Errorf("TODAY must be a YYYY-MM-DD date: %w", err)
		}
		cfg.Today = t
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
