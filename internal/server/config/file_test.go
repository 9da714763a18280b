package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func Test_parseFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("json", func(t *testing.T) {
		path := writeTemp(t, "cfg.json", `{
			"addr": "www.example:9000",
			"database_dsn": "postgres://db",
			"secret_key": "my_secret_key",
			"token_validity": "2h",
			"media_backend": "s3",
			"s3_bucket": "media",
			"contact_rate_limit": 3,
			"contact_rate_window": 60000000000
		}`)
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseFile(cfg)

		assert.Equal(t, "www.example:9000", cfg.Addr)
		assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 2*time.Hour, cfg.TokenValidity)
		assert.Equal(t, MediaS3, cfg.MediaBackend)
		assert.Equal(t, "media", cfg.S3Bucket)
		assert.Equal(t, 3, cfg.ContactRateLimit)
		assert.Equal(t, time.Minute, cfg.ContactRateWindow)
		assert.Equal(t, "us-east-1", cfg.S3Region, "absent keys keep defaults")
	})

	t.Run("yaml", func(t *testing.T) {
		path := writeTemp(t, "cfg.yaml", "addr: \":7000\"\nbootstrap_admin_email: root@example.com\ntoken_validity: 30m\n")
		os.Args = []string{"testbin", "-c", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseFile(cfg)

		assert.Equal(t, ":7000", cfg.Addr)
		assert.Equal(t, "root@example.com", cfg.BootstrapAdminEmail)
		assert.Equal(t, 30*time.Minute, cfg.TokenValidity)
		assert.Equal(t, "secretKey", cfg.SecretKey)
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}
		cfg := &Config{Addr: "defaults:1234", TokenValidity: time.Minute}
		parseFile(cfg)
		assert.Equal(t, "defaults:1234", cfg.Addr)
		assert.Equal(t, time.Minute, cfg.TokenValidity)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		path := writeTemp(t, "bad.json", `{ this is not valid json`)
		os.Args = []string{"testbin", "-config", path}
		require.Panics(t, func() { parseFile(&Config{}) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(t.TempDir(), "nope.yaml")}
		require.Panics(t, func() { parseFile(&Config{}) })
	})
}
