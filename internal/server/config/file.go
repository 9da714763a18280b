package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/portfolio/internal/flagx"
	"github.com/dmitrijs2005/portfolio/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration. Durations accept
// "15m" style strings or integer nanoseconds.
type FileConfig struct {
	Addr                   string         `json:"addr" yaml:"addr"`
	DatabaseDSN            string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey              string         `json:"secret_key" yaml:"secret_key"`
	TokenValidity          timex.Duration `json:"token_validity" yaml:"token_validity"`
	LogFormat              string         `json:"log_format" yaml:"log_format"`
	MediaBackend           string         `json:"media_backend" yaml:"media_backend"`
	MediaDir               string         `json:"media_dir" yaml:"media_dir"`
	PublicMediaURL         string         `json:"public_media_url" yaml:"public_media_url"`
	MaxUploadMB            int            `json:"max_upload_mb" yaml:"max_upload_mb"`
	S3RootUser             string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword         string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket               string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region               string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint         string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	BootstrapAdminEmail    string         `json:"bootstrap_admin_email" yaml:"bootstrap_admin_email"`
	BootstrapAdminPassword string         `json:"bootstrap_admin_password" yaml:"bootstrap_admin_password"`
	BootstrapAdminName     string         `json:"bootstrap_admin_name" yaml:"bootstrap_admin_name"`
	ContactRateLimit       int            `json:"contact_rate_limit" yaml:"contact_rate_limit"`
	ContactRateWindow      timex.Duration `json:"contact_rate_window" yaml:"contact_rate_window"`
}

func toFile(c *Config) *FileConfig {
	return &FileConfig{
		Addr:                   c.Addr,
		DatabaseDSN:            c.DatabaseDSN,
		SecretKey:              c.SecretKey,
		TokenValidity:          timex.Duration{Duration: c.TokenValidity},
		LogFormat:              c.LogFormat,
		MediaBackend:           c.MediaBackend,
		MediaDir:               c.MediaDir,
		PublicMediaURL:         c.PublicMediaURL,
		MaxUploadMB:            c.MaxUploadMB,
		S3RootUser:             c.S3RootUser,
		S3RootPassword:         c.S3RootPassword,
		S3Bucket:               c.S3Bucket,
		S3Region:               c.S3Region,
		S3BaseEndpoint:         c.S3BaseEndpoint,
		BootstrapAdminEmail:    c.BootstrapAdminEmail,
		BootstrapAdminPassword: c.BootstrapAdminPassword,
		BootstrapAdminName:     c.BootstrapAdminName,
		ContactRateLimit:       c.ContactRateLimit,
		ContactRateWindow:      timex.Duration{Duration: c.ContactRateWindow},
	}
}

func (f *FileConfig) apply(c *Config) {
	c.Addr = f.Addr
	c.DatabaseDSN = f.DatabaseDSN
	c.SecretKey = f.SecretKey
	c.TokenValidity = f.TokenValidity.Duration
	c.LogFormat = f.LogFormat
	c.MediaBackend = f.MediaBackend
	c.MediaDir = f.MediaDir
	c.PublicMediaURL = f.PublicMediaURL
	c.MaxUploadMB = f.MaxUploadMB
	c.S3RootUser = f.S3RootUser
	c.S3RootPassword = f.S3RootPassword
	c.S3Bucket = f.S3Bucket
	c.S3Region = f.S3Region
	c.S3BaseEndpoint = f.S3BaseEndpoint
	c.BootstrapAdminEmail = f.BootstrapAdminEmail
	c.BootstrapAdminPassword = f.BootstrapAdminPassword
	c.BootstrapAdminName = f.BootstrapAdminName
	c.ContactRateLimit = f.ContactRateLimit
	c.ContactRateWindow = f.ContactRateWindow.Duration
}

// parseFile overlays values from the file named by -c / -config. Keys absent
// from the file keep their current values. A .json extension selects the
// JSON decoder, anything else is read as YAML. Unreadable or malformed files
// panic.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	fc := toFile(config)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(raw, fc)
	} else {
		err = yaml.Unmarshal(raw, fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(config)
}
