package config

import "github.com/dmitrijs2005/portfolio/internal/flagx"

// parseEnv overlays PORTFOLIO_* environment variables. Malformed values panic,
// like malformed flags do.
func parseEnv(c *Config) {
	flagx.EnvString(&c.Addr, "PORTFOLIO_ADDR")
	flagx.EnvString(&c.DatabaseDSN, "PORTFOLIO_DATABASE_DSN")
	flagx.EnvString(&c.SecretKey, "PORTFOLIO_SECRET_KEY")
	flagx.EnvString(&c.LogFormat, "PORTFOLIO_LOG_FORMAT")
	flagx.EnvString(&c.MediaBackend, "PORTFOLIO_MEDIA_BACKEND")
	flagx.EnvString(&c.MediaDir, "PORTFOLIO_MEDIA_DIR")
	flagx.EnvString(&c.PublicMediaURL, "PORTFOLIO_PUBLIC_MEDIA_URL")
	flagx.EnvString(&c.S3RootUser, "PORTFOLIO_S3_ROOT_USER")
	flagx.EnvString(&c.S3RootPassword, "PORTFOLIO_S3_ROOT_PASSWORD")
	flagx.EnvString(&c.S3Bucket, "PORTFOLIO_S3_BUCKET")
	flagx.EnvString(&c.S3Region, "PORTFOLIO_S3_REGION")
	flagx.EnvString(&c.S3BaseEndpoint, "PORTFOLIO_S3_BASE_ENDPOINT")
	flagx.EnvString(&c.BootstrapAdminEmail, "PORTFOLIO_ADMIN_EMAIL")
	flagx.EnvString(&c.BootstrapAdminPassword, "PORTFOLIO_ADMIN_PASSWORD")
	flagx.EnvString(&c.BootstrapAdminName, "PORTFOLIO_ADMIN_NAME")

	for _, err := range []error{
		flagx.EnvDuration(&c.TokenValidity, "PORTFOLIO_TOKEN_VALIDITY"),
		flagx.EnvDuration(&c.ContactRateWindow, "PORTFOLIO_CONTACT_RATE_WINDOW"),
		flagx.EnvInt(&c.ContactRateLimit, "PORTFOLIO_CONTACT_RATE_LIMIT"),
		flagx.EnvInt(&c.MaxUploadMB, "PORTFOLIO_MAX_UPLOAD_MB"),
	} {
		if err != nil {
			panic(err)
		}
	}
}
