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

	assert.Equal(t, "subview", cfg.App.Name)
	assert.Equal(t, "UTC", cfg.App.Timezone)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Redis.SnapshotTTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, `(?i)issues`, cfg.Tags.NForN)
	assert.False(t, cfg.App.IsDevelopment())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_SNAPSHOT_TTL", "90s")
	t.Setenv("BILLING_API_BASE_URL", "https://rest.apisandbox.zuora.com")
	t.Setenv("DATABASE_MAX_OPEN_CONNS", "5")
	t.Setenv("TAGS_HOLIDAY", `(?i)suspension`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.App.IsDevelopment())
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 90*time.Second, cfg.Redis.SnapshotTTL)
	assert.Equal(t, "https://rest.apisandbox.zuora.com", cfg.BillingAPI.BaseURL)
	assert.Equal(t, 5, cfg.Database.MaxOpenConns)
	assert.Equal(t, `(?i)suspension`, cfg.Tags.Holiday)
}
