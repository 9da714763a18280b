package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/portfolio/internal/client/listing"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

// RecentCount is how many projects the dashboard lists.
const RecentCount = 3

// EmptyNote replaces a system note with no text.
var EmptyNote = models.SystemNote{Text: "The note is empty. Fill it in on the settings page.", Status: "Info"}

// Dashboard is the admin landing summary.
type Dashboard struct {
	BackendOnline  bool
	ProjectCount   int
	NewMessages    int
	RecentProjects []models.Project
	Note           models.SystemNote

	// MessagesErr is kept so callers can react to an expired token.
	MessagesErr error
}

type DashboardService struct {
	api    API
	logger logging.Logger
}

func NewDashboardService(a API, logger logging.Logger) *DashboardService {
	return &DashboardService{api: a, logger: logger.With("module", "dashboard")}
}

// Load fetches projects, messages and settings concurrently. A projects
// failure marks the backend offline; message and settings failures only
// leave their figures at zero values.
func (s *DashboardService) Load(ctx context.Context) *Dashboard {
	var (
		projects []models.Project
		messages []models.Message
		settings *models.Settings

		projErr, msgErr, setErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		projects, projErr = s.api.ListProjects(ctx, apiAllProjects)
		return nil
	})
	g.Go(func() error {
		messages, msgErr = s.api.ListMessages(ctx)
		return nil
	})
	g.Go(func() error {
		settings, setErr = s.api.GetSettings(ctx)
		return nil
	})
	_ = g.Wait()

	d := &Dashboard{Note: EmptyNote, MessagesErr: msgErr}

	if projErr != nil {
		s.logger.Warn(ctx, "backend offline", "error", projErr)
		return d
	}
	d.BackendOnline = true

	listing.SortProjects(projects)
	d.ProjectCount = len(projects)
	d.RecentProjects = projects[:min(RecentCount, len(projects))]

	if msgErr != nil {
		s.logger.Warn(ctx, "messages unavailable", "error", msgErr)
	} else {
		d.NewMessages = listing.UnreadCount(messages)
	}

	if setErr != nil {
		s.logger.Warn(ctx, "settings unavailable", "error", setErr)
	} else if settings != nil && settings.SystemNote.Text != "" {
		d.Note = settings.SystemNote
	}

	return d
}
