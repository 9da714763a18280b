package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/portfolio/internal/client/api"
	"github.com/dmitrijs2005/portfolio/internal/client/listing"
	"github.com/dmitrijs2005/portfolio/internal/i18n"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

const (
	featuredLimit = 8
	chipCount     = 5
)

// Shown when settings cannot be fetched.
var (
	fallbackEmail  = "vovk.zheka1@outlook.com"
	fallbackPhones = []string{"+48 739 500 702", "+380 99 313 3600"}
)

var featuredQuery = api.ProjectQuery{Featured: true, Limit: featuredLimit}

type contactState struct {
	Form    api.ContactRequest
	Fields  map[string]string
	Error   string
	Success bool
}

type homeData struct {
	Projects      []models.Project
	ProjectsError bool
	Chips         []string
	Chip          string
	Email         string
	Phones        []string
	LookingToWork bool
	Socials       models.Socials
	CVLink        string
	Online        bool
	Contact       contactState
}

func (s *Server) loadHome(ctx context.Context, chip string) *homeData {
	var (
		projects []models.Project
		settings *models.Settings

		projErr, setErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		projects, projErr = s.api.ListProjects(ctx, featuredQuery)
		return nil
	})
	g.Go(func() error {
		settings, setErr = s.api.GetSettings(ctx)
		return nil
	})
	_ = g.Wait()

	d := &homeData{
		Chip:          listing.AllChip,
		Email:         fallbackEmail,
		Phones:        fallbackPhones,
		LookingToWork: true,
		Online:        projErr == nil,
	}
	if chip != "" {
		d.Chip = strings.ToUpper(chip)
	}

	if projErr != nil {
		s.logger.Warn(ctx, "featured projects unavailable", "error", projErr)
		d.ProjectsError = true
	} else {
		listing.SortProjects(projects)
		d.Chips = listing.FeaturedChips(projects, chipCount)
		filtered := listing.FilterByChip(projects, d.Chip)
		d.Projects = filtered[:min(featuredLimit, len(filtered))]
	}

	if setErr != nil || settings == nil {
		s.logger.Warn(ctx, "settings unavailable", "error", setErr)
		return d
	}
	if settings.Email != "" {
		d.Email = settings.Email
	}
	if len(settings.Phones) > 0 {
		d.Phones = settings.Phones
	}
	d.LookingToWork = settings.IsLookingForWork
	d.Socials = settings.Socials
	d.CVLink = settings.CVLink
	return d
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	d := s.loadHome(r.Context(), r.URL.Query().Get("tech"))
	d.Contact.Success = r.URL.Query().Get("sent") == "1"
	s.render(w, r, http.StatusOK, "home", s.newView(r, d))
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	in := api.ContactRequest{
		Name:    trimmed(r, "name"),
		Email:   trimmed(r, "email"),
		Phone:   trimmed(r, "phone"),
		Message: trimmed(r, "message"),
	}

	err := s.api.SubmitContact(r.Context(), in)
	if err == nil {
		http.Redirect(w, r, "/?sent=1#contact", http.StatusSeeOther)
		return
	}

	lang := requestLang(r)
	st := contactState{Form: in, Fields: map[string]string{}}
	status := http.StatusBadGateway
	switch {
	case api.IsValidation(err):
		status = http.StatusUnprocessableEntity
		st.Fields = api.FieldErrors(err)
		st.Error = api.MessageOr(err, s.bundle.T(lang, "contact.failed"))
	case api.IsRateLimited(err):
		status = http.StatusTooManyRequests
		st.Error = s.bundle.T(lang, "contact.rate_limit_msg")
	case errors.Is(err, api.ErrUnavailable):
		st.Error = s.bundle.T(lang, "contact.network_error")
	default:
		var ae *api.APIError
		if errors.As(err, &ae) {
			status = ae.Status
		}
		st.Error = api.MessageOr(err, s.bundle.T(lang, "contact.failed"))
	}
	s.logger.Warn(r.Context(), "contact submission failed", "error", err)

	d := s.loadHome(r.Context(), "")
	d.Contact = st
	s.render(w, r, status, "home", s.newView(r, d))
}

type archiveData struct {
	Projects   []models.Project
	Error      bool
	Query      string
	Tech       []string
	Categories []string
	AllTech    []string
	AllCats    []string
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lang := requestLang(r)
	d := &archiveData{
		Query:      strings.TrimSpace(q.Get("q")),
		Tech:       q["tech"],
		Categories: q["cat"],
	}

	projects, err := s.api.ListProjects(r.Context(), api.ProjectQuery{})
	if err != nil {
		s.logger.Warn(r.Context(), "archive unavailable", "error", err)
		d.Error = true
		s.render(w, r, http.StatusOK, "archive", s.newView(r, d))
		return
	}

	listing.SortProjects(projects)
	d.AllTech = listing.AvailableTech(projects)
	d.AllCats = listing.AvailableCategories(projects)
	d.Projects = listing.FilterProjects(projects, listing.ProjectFilter{
		Search:          d.Query,
		Lang:            string(lang),
		WithDescription: true,
		Tech:            d.Tech,
		Categories:      d.Categories,
	})
	s.render(w, r, http.StatusOK, "archive", s.newView(r, d))
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.api.GetProjectBySlug(r.Context(), chi.URLParam(r, "slug"))
	switch {
	case api.IsNotFound(err):
		s.handleNotFound(w, r)
		return
	case err != nil:
		s.logger.Warn(r.Context(), "project unavailable", "error", err)
		s.render(w, r, http.StatusBadGateway, "project", s.newView(r, nil))
		return
	}
	s.render(w, r, http.StatusOK, "project", s.newView(r, *p))
}

// handleLang stores the language choice and returns the visitor to the
// page they came from, when that page is on this site.
func (s *Server) handleLang(w http.ResponseWriter, r *http.Request) {
	if l, ok := i18n.Parse(chi.URLParam(r, "code")); ok {
		s.setCookie(w, langCookie, string(l), langCookieTTL)
	}
	http.Redirect(w, r, backTo(r), http.StatusSeeOther)
}

func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Host != r.Host || !localPath(ref.Path) {
		return "/"
	}
	path := ref.EscapedPath()
	if !localPath(path) {
		return "/"
	}
	if ref.RawQuery != "" {
		return path + "?" + ref.RawQuery
	}
	return path
}

// localPath reports whether p is an absolute path on this host. Browsers
// read "//x" and "/\x" as links to host x.
func localPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "/\\")
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "notfound", s.newView(r, nil))
}
