package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/portfolio/internal/client/api"
	"github.com/dmitrijs2005/portfolio/internal/client/config"
	"github.com/dmitrijs2005/portfolio/internal/i18n"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	logger, err := logging.New(cfg.LogFormat, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}

	bundle, err := i18n.Load()
	if err != nil {
		log.Fatalf("%v", err)
	}

	client := api.New(cfg.APIBaseURL, cfg.RequestTimeout, logger)
	srv, err := web.NewServer(web.Options{
		Address:          cfg.ListenAddr,
		BatchConcurrency: cfg.BatchConcurrency,
	}, client, bundle, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
