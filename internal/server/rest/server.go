// Package rest exposes the portfolio services as a JSON HTTP API built on
// gin. Responses use the envelope {"success": bool, "data"|"message": ...}.
package rest

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/models"
	"github.com/dmitrijs2005/portfolio/internal/server/auth"
	"github.com/dmitrijs2005/portfolio/internal/server/services"
	"github.com/gin-gonic/gin"
)

type AuthService interface {
	Login(ctx context.Context, in services.LoginInput) (*models.Session, error)
	Register(ctx context.Context, in services.RegisterInput) (*models.Admin, error)
	Authenticate(token string) (*auth.Claims, error)
}

type ProjectService interface {
	List(ctx context.Context, featuredOnly bool, limit int) ([]models.Project, error)
	Get(ctx context.Context, id string) (*models.Project, error)
	GetBySlug(ctx context.Context, slug string) (*models.Project, error)
	Create(ctx context.Context, in services.ProjectInput) (*models.Project, error)
	Update(ctx context.Context, id string, patch services.ProjectPatch) (*models.Project, error)
	Delete(ctx context.Context, id string) error
}

type TagService interface {
	List(ctx context.Context) ([]models.Tag, error)
	Create(ctx context.Context, in services.TagInput) (*models.Tag, error)
	Delete(ctx context.Context, id string) error
}

type MessageService interface {
	List(ctx context.Context) ([]models.Message, error)
	Submit(ctx context.Context, in services.ContactInput) (*models.Message, error)
	SetStatus(ctx context.Context, id string, status models.MessageStatus) (*models.Message, error)
	Delete(ctx context.Context, id string) error
}

type SettingsService interface {
	Get(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, in models.Settings) (*models.Settings, error)
}

// Services bundles the business logic the handlers call into.
type Services struct {
	Auth     AuthService
	Projects ProjectService
	Tags     TagService
	Messages MessageService
	Settings SettingsService
	// Health checks backend dependencies, typically a database ping.
	Health func(ctx context.Context) error
}

// Options tune the HTTP surface.
type Options struct {
	Address           string
	MaxUploadMB       int
	ContactRateLimit  int
	ContactRateWindow time.Duration
	// UploadsDir, when set, is served read-only under UploadsURL.
	UploadsDir string
	UploadsURL string
}

type Server struct {
	opts    Options
	svc     Services
	logger  logging.Logger
	engine  *gin.Engine
	limiter *rateLimiter
}

func NewServer(opts Options, svc Services, l logging.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		opts:    opts,
		svc:     svc,
		logger:  l.With("module", "rest"),
		engine:  gin.New(),
		limiter: newRateLimiter(opts.ContactRateLimit, opts.ContactRateWindow, time.Now),
	}
	if opts.MaxUploadMB > 0 {
		s.engine.MaxMultipartMemory = int64(opts.MaxUploadMB) << 20
	}

	s.engine.Use(gin.Recovery(), s.requestLogger())
	s.registerRoutes()
	return s
}

// Engine exposes the underlying gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	s.engine.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "not found")
	})

	api := s.engine.Group("/api")
	{
		api.GET("/health", s.handleHealth)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", s.handleLogin)
			authGroup.POST("/register", s.requireAdmin(), s.handleRegister)
		}

		projects := api.Group("/projects")
		{
			projects.GET("", s.handleListProjects)
			projects.GET("/slug/:slug", s.handleGetProjectBySlug)
			projects.GET("/:id", s.handleGetProject)
			projects.POST("", s.requireAdmin(), s.limitBody(), s.handleCreateProject)
			projects.PATCH("/:id", s.requireAdmin(), s.limitBody(), s.handleUpdateProject)
			projects.DELETE("/:id", s.requireAdmin(), s.handleDeleteProject)
		}

		messages := api.Group("/messages", s.requireAdmin())
		{
			messages.GET("", s.handleListMessages)
			messages.PATCH("/:id", s.handleSetMessageStatus)
			messages.DELETE("/:id", s.handleDeleteMessage)
		}

		api.POST("/contact", s.rateLimit(), s.handleContact)

		tags := api.Group("/tags")
		{
			tags.GET("", s.handleListTags)
			tags.POST("", s.requireAdmin(), s.handleCreateTag)
			tags.DELETE("/:id", s.requireAdmin(), s.handleDeleteTag)
		}

		api.GET("/settings", s.handleGetSettings)
		api.POST("/settings", s.requireAdmin(), s.handleSaveSettings)
	}

	if s.opts.UploadsDir != "" {
		s.engine.Static(s.uploadsPrefix(), s.opts.UploadsDir)
	}
}

func (s *Server) uploadsPrefix() string {
	if s.opts.UploadsURL == "" || s.opts.UploadsURL[0] != '/' {
		return "/uploads"
	}
	return s.opts.UploadsURL
}

// Run serves until ctx is cancelled, then shuts down gracefully. It returns
// only after in-flight requests have finished or the shutdown timed out.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting REST server", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info(ctx, "Stopping REST server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	if s.svc.Health != nil {
		if err := s.svc.Health(c.Request.Context()); err != nil {
			s.logger.Warn(c.Request.Context(), "health check failed", "error", err)
			fail(c, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	ok(c, http.StatusOK, gin.H{"status": "ok"})
}
