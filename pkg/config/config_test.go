package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_APIBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://clinic.example.com/api/v1/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://clinic.example.com/api/v1", cfg.API.BaseURL)
	assert.False(t, cfg.API.BaseURLFallback)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIBaseURL, cfg.API.BaseURL)
	assert.True(t, cfg.API.BaseURLFallback)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "file", cfg.Session.Store)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, int64(10*1024*1024), cfg.Upload.MaxBytes)
	assert.Equal(t, []string{"image/jpeg", "image/png", "image/gif", "application/pdf"}, cfg.Upload.AllowedMIMETypes)
	assert.Equal(t, 30*time.Second, cfg.Tele.PollInterval)
	assert.Equal(t, "https://zoom.us", cfg.Tele.ZoomJoinBaseURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://api:8000/api/v1")
	t.Setenv("CACHE_BACKEND", "REDIS")
	t.Setenv("TELE_STATUS_POLL_INTERVAL", "5s")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, 5*time.Second, cfg.Tele.PollInterval)
	assert.Equal(t, "cache:6380", cfg.Redis.RedisAddr())
}

func TestLoad_InvalidPollInterval(t *testing.T) {
	t.Setenv("TELE_STATUS_POLL_INTERVAL", "0s")

	_, err := Load()
	assert.Error(t, err)
}
