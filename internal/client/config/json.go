package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/portfolio/internal/flagx"
	"github.com/dmitrijs2005/portfolio/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. After parsing,
// values are copied into the runtime Config.
type JsonConfig struct {
	APIBaseURL          string         `json:"api_base_url"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	ListenAddr          string         `json:"listen_addr"`
	SessionDB           string         `json:"session_db"`
	Lang                string         `json:"lang"`
	LogFormat           string         `json:"log_format"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	BatchConcurrency    int            `json:"batch_concurrency"`
}

// parseJson overlays cfg with the JSON file named by -c / -config. Keys
// absent from the file keep their current values. Read or unmarshal errors
// panic.
func parseJson(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	jc := JsonConfig{
		APIBaseURL:          cfg.APIBaseURL,
		RequestTimeout:      timex.Duration{Duration: cfg.RequestTimeout},
		ListenAddr:          cfg.ListenAddr,
		SessionDB:           cfg.SessionDB,
		Lang:                cfg.Lang,
		LogFormat:           cfg.LogFormat,
		OnlineCheckInterval: timex.Duration{Duration: cfg.OnlineCheckInterval},
		BatchConcurrency:    cfg.BatchConcurrency,
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.APIBaseURL = jc.APIBaseURL
	cfg.RequestTimeout = jc.RequestTimeout.Duration
	cfg.ListenAddr = jc.ListenAddr
	cfg.SessionDB = jc.SessionDB
	cfg.Lang = jc.Lang
	cfg.LogFormat = jc.LogFormat
	cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	cfg.BatchConcurrency = jc.BatchConcurrency
}
