package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/portfolio/internal/client/api"
	"github.com/dmitrijs2005/portfolio/internal/client/batch"
	"github.com/dmitrijs2005/portfolio/internal/client/listing"
	"github.com/dmitrijs2005/portfolio/internal/i18n"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

const (
	msgSessionExpired = "Session expired, please login again."
	msgBadLogin       = "Invalid email or password."
	msgUnreachable    = "Backend is unreachable."
	msgMismatch       = "Passwords do not match."
	msgNothing        = "Nothing selected."
	msgFailed         = "Operation failed."
)

var adminTitleLangs = []string{"en", "uk"}

type loginData struct {
	Email string
	Error string
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, status int, email, msg string) {
	v := s.newView(r, loginData{Email: email, Error: msg})
	v.Admin = ""
	s.render(w, r, status, "admin/login", v)
}

// expired handles a 401 from the backend: the stored token is no longer
// valid, so the cookies go and the login view is shown.
func (s *Server) expired(w http.ResponseWriter, r *http.Request, err error) bool {
	if !api.IsUnauthorized(err) {
		return false
	}
	s.clearAdmin(w)
	s.renderLogin(w, r, http.StatusUnauthorized, "", msgSessionExpired)
	return true
}

// failure renders an error the backend returned for an admin page.
func (s *Server) failure(w http.ResponseWriter, r *http.Request, back string, err error) {
	if s.expired(w, r, err) {
		return
	}
	s.logger.Warn(r.Context(), "admin action failed", "path", r.URL.Path, "error", err)
	redirect(w, r, back, "error", errText(err))
}

func errText(err error) string {
	if errors.Is(err, api.ErrUnavailable) {
		return msgUnreachable
	}
	return api.MessageOr(err, msgFailed)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := trimmed(r, "email")
	sess, err := s.api.Login(r.Context(), api.LoginRequest{Email: email, Password: r.FormValue("password")})
	if err != nil {
		status := http.StatusBadGateway
		msg := msgUnreachable
		if !errors.Is(err, api.ErrUnavailable) {
			status = http.StatusUnauthorized
			msg = api.MessageOr(err, msgBadLogin)
		}
		s.logger.Info(r.Context(), "login rejected", "email", email, "error", err)
		s.renderLogin(w, r, status, email, msg)
		return
	}

	s.saveAdmin(w, sess.Token, sess.Name)
	s.logger.Info(r.Context(), "admin logged in", "name", sess.Name)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearAdmin(w)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d := s.dashboard.Load(r.Context())
	if s.expired(w, r, d.MessagesErr) {
		return
	}
	s.render(w, r, http.StatusOK, "admin/dashboard", s.newView(r, d))
}

// ---- projects ----

type adminProjectsData struct {
	Projects []models.Project
	Query    string
	Total    int
}

func (s *Server) handleAdminProjects(w http.ResponseWriter, r *http.Request) {
	ps, err := s.projects.List(r.Context())
	if err != nil {
		if s.expired(w, r, err) {
			return
		}
		v := s.newView(r, adminProjectsData{})
		v.Error = errText(err)
		s.render(w, r, http.StatusBadGateway, "admin/projects", v)
		return
	}

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	d := adminProjectsData{
		Query: q,
		Total: len(ps),
		Projects: listing.FilterProjects(ps, listing.ProjectFilter{
			Search:     q,
			TitleLangs: adminTitleLangs,
			TitleOnly:  true,
		}),
	}
	s.render(w, r, http.StatusOK, "admin/projects", s.newView(r, d))
}

func (s *Server) handleProjectDelete(w http.ResponseWriter, r *http.Request) {
	res := s.projects.Delete(r.Context(), []string{chi.URLParam(r, "id")})
	s.batchOutcome(w, r, "/admin/projects", "Deleted", res)
}

func (s *Server) handleProjectsBulk(w http.ResponseWriter, r *http.Request) {
	ids := r.PostForm["ids"]
	switch {
	case len(ids) == 0:
		redirect(w, r, "/admin/projects", "error", msgNothing)
	case r.PostForm.Get("action") != "delete":
		redirect(w, r, "/admin/projects", "error", "Unknown action.")
	default:
		res := s.projects.Delete(r.Context(), ids)
		s.batchOutcome(w, r, "/admin/projects", "Deleted", res)
	}
}

// batchOutcome reports a bulk action through the redirect query.
func (s *Server) batchOutcome(w http.ResponseWriter, r *http.Request, back, verb string, res batch.Result) {
	failed := res.Failed()
	for _, it := range failed {
		if s.expired(w, r, it.Err) {
			return
		}
	}

	msg := fmt.Sprintf("%s %d of %d.", verb, len(res.Succeeded()), len(res.Items))
	if len(failed) == 0 {
		redirect(w, r, back, "notice", msg)
		return
	}
	ids := make([]string, 0, len(failed))
	for _, it := range failed {
		ids = append(ids, it.ID)
	}
	redirect(w, r, back, "error", msg+" Failed: "+strings.Join(ids, ", ")+".")
}

type projectFormData struct {
	Edit    bool
	Project models.Project
	Tags    []models.Tag
	Stages  []models.Stage
	Langs   []i18n.Lang
	Error   string
}

func (d projectFormData) Text(lang i18n.Lang) models.ProjectText {
	return d.Project.Translations[string(lang)]
}

// Action is the form's submit target.
func (d projectFormData) Action() string {
	if d.Edit {
		return "/admin/projects/" + d.Project.ID + "/edit"
	}
	return "/admin/create"
}

func (s *Server) renderProjectForm(w http.ResponseWriter, r *http.Request, status int, d projectFormData) {
	tags, err := s.api.ListTags(r.Context())
	if err != nil {
		s.logger.Warn(r.Context(), "tags unavailable", "error", err)
	}
	d.Tags = tags
	d.Stages = models.Stages
	d.Langs = i18n.Langs
	if d.Project.Stage == "" {
		d.Project.Stage = models.Stage1
	}
	s.render(w, r, status, "admin/project_form", s.newView(r, d))
}

func (s *Server) handleCreateForm(w http.ResponseWriter, r *http.Request) {
	s.renderProjectForm(w, r, http.StatusOK, projectFormData{})
}

func (s *Server) handleCreateSubmit(w http.ResponseWriter, r *http.Request) {
	s.submitProject(w, r, "")
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	p, err := s.projects.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if api.IsNotFound(err) {
			s.handleNotFound(w, r)
			return
		}
		s.failure(w, r, "/admin/projects", err)
		return
	}
	s.renderProjectForm(w, r, http.StatusOK, projectFormData{Edit: true, Project: *p})
}

func (s *Server) handleEditSubmit(w http.ResponseWriter, r *http.Request) {
	s.submitProject(w, r, chi.URLParam(r, "id"))
}

func (s *Server) submitProject(w http.ResponseWriter, r *http.Request, id string) {
	if err := parseForm(r); err != nil {
		redirect(w, r, r.URL.Path, "error", "Upload could not be read.")
		return
	}
	f, release, err := projectForm(r, id != "")
	if err != nil {
		redirect(w, r, r.URL.Path, "error", "Upload could not be read.")
		return
	}
	defer release()

	var p *models.Project
	if id == "" {
		p, err = s.projects.Create(r.Context(), f)
	} else {
		p, err = s.projects.Update(r.Context(), id, f)
	}
	if err == nil {
		verb := "Created"
		if id != "" {
			verb = "Updated"
		}
		redirect(w, r, "/admin/projects", "notice", fmt.Sprintf("%s %s.", verb, p.Slug))
		return
	}
	if s.expired(w, r, err) {
		return
	}

	s.logger.Warn(r.Context(), "project save failed", "id", id, "error", err)
	d := projectFormData{Edit: id != "", Project: submitted(f, id), Error: errText(err)}
	status := http.StatusBadGateway
	var ae *api.APIError
	if errors.As(err, &ae) {
		status = ae.Status
	}
	s.renderProjectForm(w, r, status, d)
}

// submitted rebuilds a project from a rejected form so the page can be
// shown again with what the admin typed.
func submitted(f api.ProjectForm, id string) models.Project {
	p := models.Project{
		ID:           id,
		Slug:         f.Slug,
		Stage:        f.Stage,
		IsFeatured:   f.IsFeatured,
		TechStack:    f.TechStack,
		Links:        f.Links,
		Gallery:      f.KeepGallery,
		Translations: f.Translations,
	}
	for _, name := range f.Tags {
		p.Tags = append(p.Tags, models.Tag{Name: name})
	}
	return p
}

// ---- messages ----

type messagesData struct {
	Messages []models.Message
	Filter   string
	Query    string
	Unread   int
	Total    int
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	d := messagesData{Filter: listing.StatusAll, Query: strings.TrimSpace(q.Get("q"))}
	if q.Get("filter") == listing.StatusNew {
		d.Filter = listing.StatusNew
	}

	ms, err := s.inbox.List(r.Context())
	if err != nil {
		if s.expired(w, r, err) {
			return
		}
		v := s.newView(r, d)
		v.Error = errText(err)
		s.render(w, r, http.StatusBadGateway, "admin/messages", v)
		return
	}

	d.Total = len(ms)
	d.Unread = listing.UnreadCount(ms)
	d.Messages = listing.FilterMessages(ms, listing.MessageFilter{Status: d.Filter, Search: d.Query})
	s.render(w, r, http.StatusOK, "admin/messages", s.newView(r, d))
}

func messagesBack(r *http.Request) string {
	back := "/admin/messages"
	if f := r.PostForm.Get("filter"); f == listing.StatusNew {
		back += "?filter=" + f
	}
	return back
}

func (s *Server) handleMessagesBulk(w http.ResponseWriter, r *http.Request) {
	ids := r.PostForm["ids"]
	back := messagesBack(r)
	if len(ids) == 0 {
		redirect(w, r, back, "error", msgNothing)
		return
	}
	switch r.PostForm.Get("action") {
	case "read":
		s.batchOutcome(w, r, back, "Marked read", s.inbox.MarkRead(r.Context(), ids))
	case "delete":
		s.batchOutcome(w, r, back, "Deleted", s.inbox.Delete(r.Context(), ids))
	default:
		redirect(w, r, back, "error", "Unknown action.")
	}
}

func (s *Server) handleMessageRead(w http.ResponseWriter, r *http.Request) {
	res := s.inbox.MarkRead(r.Context(), []string{chi.URLParam(r, "id")})
	s.batchOutcome(w, r, messagesBack(r), "Marked read", res)
}

func (s *Server) handleMessageDelete(w http.ResponseWriter, r *http.Request) {
	res := s.inbox.Delete(r.Context(), []string{chi.URLParam(r, "id")})
	s.batchOutcome(w, r, messagesBack(r), "Deleted", res)
}

// ---- settings & tags ----

type settingsData struct {
	Settings models.Settings
	Tags     []models.Tag
	Fields   map[string]string
	Error    string
}

// Phones renders the phone list for the single comma separated input.
func (d settingsData) Phones() string {
	return strings.Join(d.Settings.Phones, ", ")
}

func (s *Server) renderSettings(w http.ResponseWriter, r *http.Request, status int, d settingsData) {
	s.render(w, r, status, "admin/settings", s.newView(r, d))
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	var (
		settings *models.Settings
		tags     []models.Tag

		setErr, tagErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		settings, setErr = s.api.GetSettings(r.Context())
		return nil
	})
	g.Go(func() error {
		tags, tagErr = s.api.ListTags(r.Context())
		return nil
	})
	_ = g.Wait()

	d := settingsData{Tags: tags}
	if settings != nil {
		d.Settings = *settings
	}
	if err := errors.Join(setErr, tagErr); err != nil {
		if s.expired(w, r, err) {
			return
		}
		s.logger.Warn(r.Context(), "settings page degraded", "error", err)
		d.Error = errText(err)
	}
	s.renderSettings(w, r, http.StatusOK, d)
}

func (s *Server) handleSettingsSave(w http.ResponseWriter, r *http.Request) {
	in := settingsForm(r)
	if _, err := s.api.SaveSettings(r.Context(), in); err != nil {
		if s.expired(w, r, err) {
			return
		}
		tags, _ := s.api.ListTags(r.Context())
		status := http.StatusBadGateway
		var ae *api.APIError
		if errors.As(err, &ae) {
			status = ae.Status
		}
		s.renderSettings(w, r, status, settingsData{
			Settings: in,
			Tags:     tags,
			Fields:   api.FieldErrors(err),
			Error:    errText(err),
		})
		return
	}
	redirect(w, r, "/admin/settings", "notice", "Settings saved.")
}

func (s *Server) handleTagCreate(w http.ResponseWriter, r *http.Request) {
	name := trimmed(r, "name")
	if name == "" {
		redirect(w, r, "/admin/settings", "error", "Tag name is required.")
		return
	}
	tag, err := s.api.CreateTag(r.Context(), name, trimmed(r, "color"))
	if err != nil {
		s.failure(w, r, "/admin/settings", err)
		return
	}
	redirect(w, r, "/admin/settings", "notice", fmt.Sprintf("Tag %s added.", tag.Name))
}

func (s *Server) handleTagDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.api.DeleteTag(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.failure(w, r, "/admin/settings", err)
		return
	}
	redirect(w, r, "/admin/settings", "notice", "Tag deleted.")
}

// ---- register ----

type registerData struct {
	Name   string
	Email  string
	Fields map[string]string
	Error  string
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "admin/register", s.newView(r, registerData{}))
}

func (s *Server) handleRegisterSubmit(w http.ResponseWriter, r *http.Request) {
	d := registerData{Name: trimmed(r, "name"), Email: trimmed(r, "email")}
	password := r.FormValue("password")
	if password != r.FormValue("confirm") {
		d.Error = msgMismatch
		s.render(w, r, http.StatusUnprocessableEntity, "admin/register", s.newView(r, d))
		return
	}

	admin, err := s.api.Register(r.Context(), api.RegisterRequest{Name: d.Name, Email: d.Email, Password: password})
	if err != nil {
		if s.expired(w, r, err) {
			return
		}
		status := http.StatusBadGateway
		var ae *api.APIError
		if errors.As(err, &ae) {
			status = ae.Status
		}
		d.Fields = api.FieldErrors(err)
		d.Error = errText(err)
		s.render(w, r, status, "admin/register", s.newView(r, d))
		return
	}
	redirect(w, r, "/admin", "notice", fmt.Sprintf("Admin %s registered.", admin.Name))
}
