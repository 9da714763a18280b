// Package web serves the public portfolio site and the admin back-office as
// server-rendered pages. All data comes from the REST backend through the
// api client.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/portfolio/internal/client/api"
	"github.com/dmitrijs2005/portfolio/internal/client/services"
	"github.com/dmitrijs2005/portfolio/internal/i18n"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

// Backend is the API surface the site uses.
type Backend interface {
	services.API
	GetProjectBySlug(ctx context.Context, slug string) (*models.Project, error)
	SubmitContact(ctx context.Context, in api.ContactRequest) error
	ListTags(ctx context.Context) ([]models.Tag, error)
	CreateTag(ctx context.Context, name, color string) (*models.Tag, error)
	DeleteTag(ctx context.Context, id string) error
	SaveSettings(ctx context.Context, s models.Settings) (*models.Settings, error)
}

var _ Backend = (*api.Client)(nil)

type Options struct {
	Address string
	// BatchConcurrency bounds parallel API calls of bulk actions.
	BatchConcurrency int
	// SecureCookies marks cookies Secure; enable behind HTTPS.
	SecureCookies bool
}

type Server struct {
	opts      Options
	api       Backend
	dashboard *services.DashboardService
	inbox     *services.InboxService
	projects  *services.ProjectsService
	bundle    *i18n.Bundle
	pages     *pages
	logger    logging.Logger
}

func NewServer(opts Options, b Backend, bundle *i18n.Bundle, logger logging.Logger) (*Server, error) {
	p, err := loadPages(bundle)
	if err != nil {
		return nil, err
	}
	return &Server{
		opts:      opts,
		api:       b,
		dashboard: services.NewDashboardService(b, logger),
		inbox:     services.NewInboxService(b, opts.BatchConcurrency, logger),
		projects:  services.NewProjectsService(b, opts.BatchConcurrency, logger),
		bundle:    bundle,
		pages:     p,
		logger:    logger.With("module", "web"),
	}, nil
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.csrf)

	r.Get("/", s.handleHome)
	r.Get("/archive", s.handleArchive)
	r.Get("/projects/{slug}", s.handleProject)
	r.Post("/contact", s.handleContact)
	r.Get("/lang/{code}", s.handleLang)

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)

			r.Get("/", s.handleDashboard)
			r.Post("/logout", s.handleLogout)

			r.Get("/projects", s.handleAdminProjects)
			r.Post("/projects/bulk", s.handleProjectsBulk)
			r.Post("/projects/{id}/delete", s.handleProjectDelete)
			r.Get("/projects/{id}/edit", s.handleEditForm)
			r.Post("/projects/{id}/edit", s.handleEditSubmit)
			r.Get("/create", s.handleCreateForm)
			r.Post("/create", s.handleCreateSubmit)

			r.Get("/messages", s.handleMessages)
			r.Post("/messages/bulk", s.handleMessagesBulk)
			r.Post("/messages/{id}/read", s.handleMessageRead)
			r.Post("/messages/{id}/delete", s.handleMessageDelete)

			r.Get("/settings", s.handleSettings)
			r.Post("/settings", s.handleSettingsSave)
			r.Post("/tags", s.handleTagCreate)
			r.Post("/tags/{id}/delete", s.handleTagDelete)

			r.Get("/register", s.handleRegisterForm)
			r.Post("/register", s.handleRegisterSubmit)
		})
	})

	r.NotFound(s.handleNotFound)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Address,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "web server started", "address", s.opts.Address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info(ctx, "web server stopping")
		return srv.Shutdown(shutdownCtx)
	}
}
