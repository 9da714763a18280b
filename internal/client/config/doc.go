// Package config loads runtime configuration shared by the portfolio web
// front end and the admin console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. PORTFOLIO_* environment variables.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the REST API (e.g., "http://127.0.0.1:5000")
//	-l string   listen address of the web front end
//	-s string   path of the console session database
//	-g string   interface language: en | uk | pl
//	-f string   log format: slog | zap
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://127.0.0.1:5000",
//	  "listen_addr": ":3000",
//	  "session_db": "portfolio-cli.db",
//	  "lang": "en",
//	  "log_format": "slog",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s",
//	  "batch_concurrency": 4
//	}
package config
