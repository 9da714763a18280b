package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/portfolio/internal/client/api"
	"github.com/dmitrijs2005/portfolio/internal/i18n"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

const (
	goodToken = "tok-123"
	testCSRF  = "csrf-abc"
)

var unauthorized = &api.APIError{Status: 401, Message: "token expired"}

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type savedForm struct {
	id        string
	form      api.ProjectForm
	mainImage string
	gallery   []string
}

type fakeBackend struct {
	mu sync.Mutex

	projects    []models.Project
	messages    []models.Message
	tags        []models.Tag
	settings    *models.Settings
	projectsErr error
	settingsErr error
	contactErr  error
	saveErr     error
	failIDs     map[string]error

	contacts        []api.ContactRequest
	saved           []savedForm
	deletedProjects []string
	deletedMessages []string
	readMessages    []string
	createdTags     []string
	deletedTags     []string
	savedSettings   []models.Settings
	registered      []api.RegisterRequest
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		failIDs: map[string]error{},
		projects: []models.Project{
			{
				ID: "p1", Slug: "shop", Stage: models.Stage3, IsFeatured: true,
				TechStack: []string{"Go", "PostgreSQL"},
				Tags:      []models.Tag{{ID: "t1", Name: "Backend"}},
				Links:     models.Links{GitHub: "https://github.com/x/shop"},
				Translations: map[string]models.ProjectText{
					"en": {Title: "Online shop", Description: "A storefront", FullCaseStudy: "First.\nSecond."},
					"uk": {Title: "Магазин"},
				},
				CreatedAt: t0.Add(2 * time.Hour),
			},
			{
				ID: "p2", Slug: "blog", Stage: models.Stage1, IsFeatured: true,
				TechStack: []string{"React"},
				Tags:      []models.Tag{{ID: "t2", Name: "Frontend"}},
				Translations: map[string]models.ProjectText{
					"en": {Title: "Personal blog", Description: "Markdown posts"},
				},
				CreatedAt: t0,
			},
		},
		messages: []models.Message{
			{ID: "m1", Name: "Ann", Email: "ann@example.com", Message: "Hire you?", Status: models.MessageNew, CreatedAt: t0},
			{ID: "m2", Name: "Bob", Email: "bob@example.com", Message: "Thanks", Status: models.MessageRead, CreatedAt: t0.Add(time.Hour)},
		},
		tags: []models.Tag{{ID: "t1", Name: "Backend"}, {ID: "t2", Name: "Frontend"}},
		settings: &models.Settings{
			Email:            "me@example.com",
			Phones:           []string{"+48 111 222 333"},
			IsLookingForWork: true,
			SystemNote:       models.SystemNote{Text: "All good", Status: "OK"},
		},
	}
}

func admin(ctx context.Context) error {
	if api.TokenFrom(ctx) != goodToken {
		return unauthorized
	}
	return nil
}

func (f *fakeBackend) Health(context.Context) error { return f.projectsErr }

func (f *fakeBackend) Login(_ context.Context, in api.LoginRequest) (*models.Session, error) {
	if in.Email != "admin@example.com" || in.Password != "secret" {
		return nil, &api.APIError{Status: 401, Message: "Invalid credentials"}
	}
	return &models.Session{Token: goodToken, Name: "Root"}, nil
}

func (f *fakeBackend) Register(ctx context.Context, in api.RegisterRequest) (*models.Admin, error) {
	if err := admin(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered = append(f.registered, in)
	return &models.Admin{ID: "a2", Name: in.Name, Email: in.Email}, nil
}

func (f *fakeBackend) ListProjects(_ context.Context, q api.ProjectQuery) ([]models.Project, error) {
	if f.projectsErr != nil {
		return nil, f.projectsErr
	}
	var out []models.Project
	for _, p := range f.projects {
		if q.Featured && !p.IsFeatured {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeBackend) GetProject(_ context.Context, id string) (*models.Project, error) {
	for _, p := range f.projects {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, &api.APIError{Status: 404, Message: "Project not found"}
}

func (f *fakeBackend) GetProjectBySlug(_ context.Context, slug string) (*models.Project, error) {
	if f.projectsErr != nil {
		return nil, f.projectsErr
	}
	for _, p := range f.projects {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, &api.APIError{Status: 404, Message: "Project not found"}
}

func (f *fakeBackend) save(ctx context.Context, id string, form api.ProjectForm) (*models.Project, error) {
	if err := admin(ctx); err != nil {
		return nil, err
	}
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	s := savedForm{id: id, form: form}
	if form.MainImage != nil {
		b, _ := io.ReadAll(form.MainImage.Body)
		s.mainImage = form.MainImage.Name + ":" + string(b)
	}
	for _, g := range form.Gallery {
		b, _ := io.ReadAll(g.Body)
		s.gallery = append(s.gallery, g.Name+":"+string(b))
	}
	f.mu.Lock()
	f.saved = append(f.saved, s)
	f.mu.Unlock()
	return &models.Project{ID: "new", Slug: form.Slug}, nil
}

func (f *fakeBackend) CreateProject(ctx context.Context, form api.ProjectForm) (*models.Project, error) {
	return f.save(ctx, "", form)
}

func (f *fakeBackend) UpdateProject(ctx context.Context, id string, form api.ProjectForm) (*models.Project, error) {
	return f.save(ctx, id, form)
}

func (f *fakeBackend) fail(ctx context.Context, id string) error {
	if err := admin(ctx); err != nil {
		return err
	}
	return f.failIDs[id]
}

func (f *fakeBackend) DeleteProject(ctx context.Context, id string) error {
	if err := f.fail(ctx, id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedProjects = append(f.deletedProjects, id)
	return nil
}

func (f *fakeBackend) SubmitContact(_ context.Context, in api.ContactRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contacts = append(f.contacts, in)
	return f.contactErr
}

func (f *fakeBackend) ListMessages(ctx context.Context) ([]models.Message, error) {
	if err := admin(ctx); err != nil {
		return nil, err
	}
	return append([]models.Message(nil), f.messages...), nil
}

func (f *fakeBackend) SetMessageStatus(ctx context.Context, id string, status models.MessageStatus) (*models.Message, error) {
	if err := f.fail(ctx, id); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readMessages = append(f.readMessages, id)
	return &models.Message{ID: id, Status: status}, nil
}

func (f *fakeBackend) DeleteMessage(ctx context.Context, id string) error {
	if err := f.fail(ctx, id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedMessages = append(f.deletedMessages, id)
	return nil
}

func (f *fakeBackend) ListTags(context.Context) ([]models.Tag, error) {
	return f.tags, nil
}

func (f *fakeBackend) CreateTag(ctx context.Context, name, color string) (*models.Tag, error) {
	if err := admin(ctx); err != nil {
		return nil, err
	}
	if name == "Backend" {
		return nil, &api.APIError{Status: 409, Message: "Tag already exists"}
	}
	f.createdTags = append(f.createdTags, name+" "+color)
	return &models.Tag{ID: "t9", Name: name, Color: color}, nil
}

func (f *fakeBackend) DeleteTag(ctx context.Context, id string) error {
	if err := admin(ctx); err != nil {
		return err
	}
	f.deletedTags = append(f.deletedTags, id)
	return nil
}

func (f *fakeBackend) GetSettings(context.Context) (*models.Settings, error) {
	if f.settingsErr != nil {
		return nil, f.settingsErr
	}
	return f.settings, nil
}

func (f *fakeBackend) SaveSettings(ctx context.Context, s models.Settings) (*models.Settings, error) {
	if err := admin(ctx); err != nil {
		return nil, err
	}
	if s.Email == "" {
		return nil, &api.APIError{Status: 422, Message: "Validation failed", FieldErrors: map[string]string{"email": "email is required"}}
	}
	f.savedSettings = append(f.savedSettings, s)
	return &s, nil
}

// testEnv drives the router directly with recorded requests.
type testEnv struct {
	b *fakeBackend
	h http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	b := newFakeBackend()
	return newTestEnvWith(t, b)
}

func newTestEnvWith(t *testing.T, b Backend) *testEnv {
	t.Helper()
	s, err := NewServer(Options{BatchConcurrency: 2}, b, i18n.MustLoad(), logging.Nop())
	require.NoError(t, err)
	fb, _ := b.(*fakeBackend)
	return &testEnv{b: fb, h: s.Routes()}
}

var adminCookie = []*http.Cookie{
	{Name: tokenCookie, Value: goodToken},
	{Name: nameCookie, Value: "Root"},
}

var staleCookie = []*http.Cookie{
	{Name: tokenCookie, Value: "old"},
	{Name: nameCookie, Value: "Root"},
}

func (e *testEnv) serve(req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return e.serve(httptest.NewRequest(http.MethodGet, path, nil), cookies)
}

// post submits an urlencoded form carrying a valid CSRF pair.
func (e *testEnv) post(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	form.Set(csrfField, testCSRF)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: csrfCookie, Value: testCSRF})
	return e.serve(req, cookies)
}

// location returns the redirect target and its query.
func location(t *testing.T, rec *httptest.ResponseRecorder) (string, url.Values) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	u, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	return u.Path, u.Query()
}

func cookieFrom(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func newGetRequest(path string) *http.Request {
	return httptest.NewRequest(http.MethodGet, path, nil)
}

func newFormRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}
