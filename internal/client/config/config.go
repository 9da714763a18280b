package config

import "time"

// Config holds runtime settings for the web front end and the console.
//
// Fields:
//   - APIBaseURL: scheme://host:port of the REST backend, without /api.
//   - RequestTimeout: per-request timeout of the API client.
//   - ListenAddr: bind address of the web front end.
//   - SessionDB: SQLite file keeping the console session.
//   - Lang: default interface language.
//   - OnlineCheckInterval: how often the console probes backend reachability.
//   - BatchConcurrency: parallel requests issued by bulk actions.
type Config struct {
	APIBaseURL          string
	RequestTimeout      time.Duration
	ListenAddr          string
	SessionDB           string
	Lang                string
	LogFormat           string
	OnlineCheckInterval time.Duration
	BatchConcurrency    int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:5000"
	c.RequestTimeout = 10 * time.Second
	c.ListenAddr = ":3000"
	c.SessionDB = "portfolio-cli.db"
	c.Lang = "en"
	c.LogFormat = "slog"
	c.OnlineCheckInterval = 3 * time.Second
	c.BatchConcurrency = 4
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
