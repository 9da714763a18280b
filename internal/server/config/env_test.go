package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseEnv(t *testing.T) {
	t.Setenv("PORTFOLIO_ADDR", ":8081")
	t.Setenv("PORTFOLIO_MEDIA_BACKEND", "s3")
	t.Setenv("PORTFOLIO_ADMIN_EMAIL", "me@example.com")
	t.Setenv("PORTFOLIO_TOKEN_VALIDITY", "12h")
	t.Setenv("PORTFOLIO_CONTACT_RATE_LIMIT", "10")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":8081", cfg.Addr)
	assert.Equal(t, MediaS3, cfg.MediaBackend)
	assert.Equal(t, "me@example.com", cfg.BootstrapAdminEmail)
	assert.Equal(t, 12*time.Hour, cfg.TokenValidity)
	assert.Equal(t, 10, cfg.ContactRateLimit)
	assert.Equal(t, "secretKey", cfg.SecretKey)
}

func Test_parseEnv_BadDurationPanics(t *testing.T) {
	t.Setenv("PORTFOLIO_TOKEN_VALIDITY", "a while")
	cfg := &Config{}
	require.Panics(t, func() { parseEnv(cfg) })
}
