package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "better-me-core", cfg.App.Name)
	assert.Equal(t, EnvDevelopment, cfg.App.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	assert.Equal(t, StorageFile, cfg.Storage.Backend)
	assert.Equal(t, "./data/profiles", cfg.Storage.DataDir)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 10, cfg.Gamification.HabitCompletionXP)
	assert.Equal(t, 25, cfg.Gamification.GoalProgressXP)
	assert.Equal(t, 25, cfg.Gamification.JournalEntryXP)
	assert.Equal(t, 5, cfg.Gamification.MaxBadgesPerAction)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://better:secret@db:5432/betterme")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("XP_HABIT_COMPLETION", "20")
	t.Setenv("REDIS_DISABLED", "true")
	t.Setenv("APP_SHUTDOWN_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, StoragePostgres, cfg.Storage.Backend)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 20, cfg.Gamification.HabitCompletionXP)
	assert.True(t, cfg.Redis.Disabled)
	assert.Equal(t, 5*time.Second, cfg.App.ShutdownTimeout)
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "tape")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_BACKEND")
}

func TestValidateRequiresProdDatabaseCredentials(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORAGE_BACKEND", "postgres")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestValidateRejectsNegativeXP(t *testing.T) {
	t.Setenv("XP_JOURNAL_ENTRY", "-5")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "XP awards")
}

func TestValidateRejectsBadPort(t *testing.T) {
	t.Setenv("HTTP_PORT", "99999")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP_PORT")
}

func TestEnvHelpersFallBackOnGarbage(t *testing.T) {
	t.Setenv("HTTP_RATE_LIMIT_PER_MINUTE", "not-a-number")
	t.Setenv("HTTP_READ_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.HTTP.RateLimitPerMinute)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
}
