package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 3000, cfg.HTTPPort)
	assert.Equal(t, "http://localhost:8080/api/v1", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
	assert.Equal(t, 10, cfg.ReviewsPerPage)
	assert.Equal(t, 720*time.Hour, cfg.SessionTTL)
	assert.Empty(t, cfg.RedisAddr)
	assert.False(t, cfg.OTELEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("SESSION_SECRET", "a-real-secret")
	t.Setenv("HTTP_PORT", "8088")
	t.Setenv("API_BASE_URL", "https://api.jodislist.com/api/v1")
	t.Setenv("REVIEWS_PER_PAGE", "20")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://jodislist.com,https://www.jodislist.com")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 8088, cfg.HTTPPort)
	assert.Equal(t, "https://api.jodislist.com/api/v1", cfg.APIBaseURL)
	assert.Equal(t, 20, cfg.ReviewsPerPage)
	assert.Equal(t, []string{"https://jodislist.com", "https://www.jodislist.com"}, cfg.CORSAllowedOrigins)
}

func TestLoad_RejectsDefaultSecretOutsideDevelopment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}
