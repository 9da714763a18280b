// Package server wires the portfolio REST backend together: configuration,
// logging, PostgreSQL, migrations, the media store and the HTTP server. It
// also handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/server/config"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/portfolio/internal/server/rest"
	"github.com/dmitrijs2005/portfolio/internal/server/services"
	"github.com/dmitrijs2005/portfolio/internal/server/storage"
)

var (
	openDB               = repomanager.OpenPostgres
	newRepositoryManager = repomanager.NewPostgresRepositoryManager
	newS3Store           = storage.NewS3Store
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	rest   *rest.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogFormat, os.Stdout)
	if err != nil {
		return nil, err
	}

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := newApp(ctx, c, logger, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB) (*App, error) {
	rm := newRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	media, uploadsDir, err := newMediaStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("media store: %w", err)
	}

	as := services.NewAuthService(db, rm, c, logger)
	created, err := as.EnsureBootstrapAdmin(ctx, c.BootstrapAdminName, c.BootstrapAdminEmail, c.BootstrapAdminPassword)
	if err != nil {
		return nil, err
	}
	if created {
		logger.Info(ctx, "bootstrap admin created", "email", c.BootstrapAdminEmail)
	}

	srv := rest.NewServer(rest.Options{
		Address:           c.Addr,
		MaxUploadMB:       c.MaxUploadMB,
		ContactRateLimit:  c.ContactRateLimit,
		ContactRateWindow: c.ContactRateWindow,
		UploadsDir:        uploadsDir,
		UploadsURL:        c.PublicMediaURL,
	}, rest.Services{
		Auth:     as,
		Projects: services.NewProjectService(db, rm, media, logger),
		Tags:     services.NewTagService(db, rm, logger),
		Messages: services.NewMessageService(db, rm, logger),
		Settings: services.NewSettingsService(db, rm, logger),
		Health:   db.PingContext,
	}, logger)

	return &App{config: c, logger: logger, db: db, rest: srv}, nil
}

// newMediaStore builds the configured media backend. For the local backend
// it also returns the directory the REST server must expose.
func newMediaStore(ctx context.Context, c *config.Config) (storage.MediaStore, string, error) {
	switch c.MediaBackend {
	case config.MediaLocal, "":
		st, err := storage.NewLocalStore(c.MediaDir, c.PublicMediaURL)
		if err != nil {
			return nil, "", err
		}
		return st, st.Dir, nil
	case config.MediaS3:
		st, err := newS3Store(ctx, storage.S3Options{
			AccessKey: c.S3RootUser,
			SecretKey: c.S3RootPassword,
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			Endpoint:  c.S3BaseEndpoint,
		})
		if err != nil {
			return nil, "", err
		}
		return st, "", nil
	default:
		return nil, "", fmt.Errorf("unknown media backend %q", c.MediaBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.rest.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			runErr = err
			cancelFunc()
		}
	}()
	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close failed", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
	return runErr
}
