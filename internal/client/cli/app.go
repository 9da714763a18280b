package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/client/api"
	"github.com/dmitrijs2005/portfolio/internal/client/config"
	"github.com/dmitrijs2005/portfolio/internal/client/services"
	"github.com/dmitrijs2005/portfolio/internal/client/session"
	"github.com/dmitrijs2005/portfolio/internal/i18n"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

// backend is the API surface the console uses.
type backend interface {
	services.API
	BaseURL() string
	GetProjectBySlug(ctx context.Context, slug string) (*models.Project, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	CreateTag(ctx context.Context, name, color string) (*models.Tag, error)
	DeleteTag(ctx context.Context, id string) error
}

type sessionStore interface {
	services.SessionStore
	SetLang(ctx context.Context, lang string) error
	Close() error
}

// Seams for tests.
var (
	openStore  = func(ctx context.Context, dsn string) (sessionStore, error) { return session.Open(ctx, dsn) }
	newBackend = func(c *config.Config, l logging.Logger) backend { return api.New(c.APIBaseURL, c.RequestTimeout, l) }
)

type App struct {
	config    *config.Config
	api       backend
	store     sessionStore
	auth      *services.AuthService
	dashboard *services.DashboardService
	inbox     *services.InboxService
	projects  *services.ProjectsService
	logger    logging.Logger

	reader *bufio.Reader
	out    io.Writer
	view   *view

	mu   sync.Mutex
	sess session.Session
	mode Mode
}

// NewApp opens the session store and restores the saved session.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogFormat, os.Stderr)
	if err != nil {
		return nil, err
	}

	store, err := openStore(ctx, c.SessionDB)
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}

	a := newApp(c, newBackend(c, logger), store, logger, os.Stdin, os.Stdout)
	if err := a.restore(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return a, nil
}

func newApp(c *config.Config, b backend, store sessionStore, logger logging.Logger, in io.Reader, w io.Writer) *App {
	out := &lockedWriter{w: w}
	return &App{
		config:    c,
		api:       b,
		store:     store,
		auth:      services.NewAuthService(b, store, logger),
		dashboard: services.NewDashboardService(b, logger),
		inbox:     services.NewInboxService(b, c.BatchConcurrency, logger),
		projects:  services.NewProjectsService(b, c.BatchConcurrency, logger),
		logger:    logger.With("module", "cli"),
		reader:    bufio.NewReader(in),
		out:       out,
		view:      newView(w),
		mode:      ModeOnline,
	}
}

func (a *App) restore(ctx context.Context) error {
	sess, err := a.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if _, ok := i18n.Parse(sess.Lang); !ok {
		sess.Lang = a.config.Lang
	}
	a.setSession(sess)
	return nil
}

// Run starts the connectivity watcher and the REPL. It returns when the user
// exits, input ends or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer a.store.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}()

	fmt.Fprintln(a.out, "Portfolio admin console (type 'help' for commands)")
	runREPL(ctx, a, a.prompt, a.reader, a.out)

	cancel()
	wg.Wait()
	return nil
}

func (a *App) session() session.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sess
}

func (a *App) setSession(s session.Session) {
	a.mu.Lock()
	a.sess = s
	a.mu.Unlock()
}

func (a *App) isLoggedIn() bool {
	return a.session().LoggedIn()
}

func (a *App) lang() string {
	return a.session().Lang
}

// authed attaches the stored token to ctx.
func (a *App) authed(ctx context.Context) context.Context {
	return api.WithToken(ctx, a.session().Token)
}

func (a *App) prompt() string {
	s := a.session()
	status := s.Lang
	if s.Name != "" {
		status = s.Name + " " + status
	}
	return fmt.Sprintf("pf (%s)> ", status)
}

func (a *App) currentMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// setMode records the connectivity mode and reports transitions.
func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		fmt.Fprintln(a.out, a.view.mode(mode, "Switched to "+string(mode)+" mode"))
	}
}

// StartOnlineStatusWatcher probes the backend every interval until ctx is
// done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) probe(ctx context.Context) {
	if err := a.api.Health(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// lockedWriter serializes writes from the REPL and the watcher.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
