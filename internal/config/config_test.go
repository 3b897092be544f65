package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENVIRONMENT", "PORT", "TIMEZONE", "ADMIN_ROLES", "POLL_INTERVAL", "REDIS_URL", "DATABASE_PATH"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, time.UTC, cfg.Timezone)
	assert.Equal(t, []string{"admin"}, cfg.AdminRoles)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 30, cfg.NotificationRetentionDays)
	assert.Empty(t, cfg.RedisURL)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("TIMEZONE", "Asia/Bangkok")
	t.Setenv("ADMIN_ROLES", "admin, manager ,")
	t.Setenv("POLL_INTERVAL", "7")
	t.Setenv("NOTIFICATION_RETENTION_DAYS", "14")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "Asia/Bangkok", cfg.Timezone.String())
	assert.Equal(t, []string{"admin", "manager"}, cfg.AdminRoles)
	assert.Equal(t, 7*time.Second, cfg.PollInterval)
	assert.Equal(t, 14, cfg.NotificationRetentionDays)
}

func TestLoadRejectsUnknownTimezone(t *testing.T) {
	t.Setenv("TIMEZONE", "Mars/Olympus_Mons")

	_, err := Load()
	assert.Error(t, err)
}

func TestClampPollInterval(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want time.Duration
	}{
		{time.Second, 3 * time.Second},
		{3 * time.Second, 3 * time.Second},
		{6 * time.Second, 6 * time.Second},
		{time.Minute, 10 * time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampPollInterval(tt.in), "input %s", tt.in)
	}
}
