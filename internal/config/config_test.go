package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"APP_ENV", "SERVER_PORT", "EVENTS_BACKEND", "TX_MAX_RETRIES",
		"REVIEW_EDIT_WINDOW", "REQUIRE_COMPLETED_FOR_REVIEW",
	} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "none", cfg.EventsBackend)
	assert.Equal(t, 3, cfg.TxMaxRetries)
	assert.Equal(t, 24*time.Hour, cfg.ReviewEditWindow)
	assert.True(t, cfg.RequireCompletedForReview)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("EVENTS_BACKEND", "redis")
	t.Setenv("TX_MAX_RETRIES", "5")
	t.Setenv("REVIEW_EDIT_WINDOW", "48h")
	t.Setenv("REQUIRE_COMPLETED_FOR_REVIEW", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "redis", cfg.EventsBackend)
	assert.Equal(t, 5, cfg.TxMaxRetries)
	assert.Equal(t, 48*time.Hour, cfg.ReviewEditWindow)
	assert.False(t, cfg.RequireCompletedForReview)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("EVENTS_BACKEND", "kafka")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("EVENTS_BACKEND", "")
	t.Setenv("TX_MAX_RETRIES", "many")
	_, err = Load()
	assert.Error(t, err)
}
