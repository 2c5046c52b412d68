package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pgvcc/agenda/internal/config"
)

// TestLoad_defaults verifies that every value falls back to its default
// when nothing is set.
func TestLoad_defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SNAPSHOT_FILE", "")
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("TODAY", "")
	t.Setenv("REMINDER_CRON", "")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "info", cfg.LogLevel)
	require.Empty(t, cfg.DatabaseURL)
	require.Equal(t, "visits.json", cfg.SnapshotFile)
	require.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	require.True(t, cfg.Today.IsZero())
	require.Equal(t, "* * * * *", cfg.ReminderCron)
}

// TestLoad_overrides verifies that all values can be overridden via env vars.
func TestLoad_overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://user:pass@db:5432/agenda")
	t.Setenv("SNAPSHOT_FILE", "/var/lib/agenda/visits.json")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("TODAY", "2025-12-17")
	t.Setenv("REMINDER_CRON", "*/5 * * * *")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "postgres://user:pass@db:5432/agenda", cfg.DatabaseURL)
	require.Equal(t, "/var/lib/agenda/visits.json", cfg.SnapshotFile)
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	require.Equal(t, time.Date(2025, 12, 17, 0, 0, 0, 0, time.UTC), cfg.Today)
	require.Equal(t, "*/5 * * * *", cfg.ReminderCron)
}

// TestLoad_badToday verifies that an unparseable TODAY is an error that
// names the variable.
func TestLoad_badToday(t *testing.T) {
	t.Setenv("TODAY", "mañana")

	_, err := config.Load()

	require.Error(t, err)
	require.ErrorContains(t, err, "TODAY")
}
