package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// Durations are given in whole seconds. Parse errors panic.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-l", "-s", "-g", "-f", "-t", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.APIBaseURL, "a", config.APIBaseURL, "REST API base URL")
	fs.StringVar(&config.ListenAddr, "l", config.ListenAddr, "web listen address")
	fs.StringVar(&config.SessionDB, "s", config.SessionDB, "console session database")
	fs.StringVar(&config.Lang, "g", config.Lang, "interface language (en|uk|pl)")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format (slog|zap)")

	timeout := fs.Int("t", int(config.RequestTimeout.Seconds()), "request timeout (in seconds)")
	interval := fs.Int("i", int(config.OnlineCheckInterval.Seconds()), "online status check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.RequestTimeout = time.Duration(*timeout) * time.Second
	config.OnlineCheckInterval = time.Duration(*interval) * time.Second
}
