package config

import "github.com/dmitrijs2005/portfolio/internal/flagx"

func parseEnv(c *Config) {
	flagx.EnvString(&c.APIBaseURL, "PORTFOLIO_API_URL")
	flagx.EnvString(&c.ListenAddr, "PORTFOLIO_WEB_ADDR")
	flagx.EnvString(&c.SessionDB, "PORTFOLIO_SESSION_DB")
	flagx.EnvString(&c.Lang, "PORTFOLIO_LANG")
	flagx.EnvString(&c.LogFormat, "PORTFOLIO_LOG_FORMAT")

	for _, err := range []error{
		flagx.EnvDuration(&c.RequestTimeout, "PORTFOLIO_REQUEST_TIMEOUT"),
		flagx.EnvDuration(&c.OnlineCheckInterval, "PORTFOLIO_ONLINE_CHECK_INTERVAL"),
		flagx.EnvInt(&c.BatchConcurrency, "PORTFOLIO_BATCH_CONCURRENCY"),
	} {
		if err != nil {
			panic(err)
		}
	}
}
