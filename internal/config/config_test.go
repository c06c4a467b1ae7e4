package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_NAME", "")
	t.Setenv("JWT_TTL_HOURS", "")

	cfg := Load()

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "jagoanbunda", cfg.Database.Database)
	assert.Equal(t, 720*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "notifications", cfg.Notify.Stream)
	assert.NotNil(t, cfg.Timezone)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SENTRY_SAMPLE_RATE", "0.25")
	t.Setenv("SESSION_LIFETIME_MINUTES", "30")
	t.Setenv("ASQ3_IMAGE_URL_PREFIX", "/cdn/asq3/")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "redis:6380", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.InDelta(t, 0.25, cfg.Sentry.SampleRate, 1e-9)
	assert.Equal(t, 30*time.Minute, cfg.Auth.SessionTTL)
	assert.Equal(t, "/cdn/asq3", cfg.Storage.ImageURLPrefix)
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, 7, parseInt("x", 7))
	assert.Equal(t, 12, parseInt("12", 7))
	assert.InDelta(t, 0.5, parseFloat("bad", 0.5), 1e-9)
}
