package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/client/api"
	"github.com/dmitrijs2005/portfolio/internal/client/config"
	"github.com/dmitrijs2005/portfolio/internal/client/session"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

const goodToken = "tok-123"

var unauthorized = &api.APIError{Status: 401, Message: "token expired"}

type fakeBackend struct {
	mu sync.Mutex

	healthErr error
	projects  []models.Project
	messages  []models.Message
	tags      []models.Tag
	settings  models.Settings
	failIDs   map[string]error

	deletedProjects []string
	deletedMessages []string
	readMessages    []string
	createdTags     [][2]string
	deletedTags     []string
	registered      []api.RegisterRequest
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{failIDs: map[string]error{}}
}

// admin rejects calls whose ctx lacks the expected token.
func admin(ctx context.Context) error {
	if api.TokenFrom(ctx) != goodToken {
		return unauthorized
	}
	return nil
}

func (f *fakeBackend) BaseURL() string { return "http://backend.test" }

func (f *fakeBackend) Health(context.Context) error { return f.healthErr }

func (f *fakeBackend) Login(_ context.Context, in api.LoginRequest) (*models.Session, error) {
	if in.Email != "admin@example.com" || in.Password != "secret" {
		return nil, &api.APIError{Status: 401, Message: "invalid email or password"}
	}
	return &models.Session{Token: goodToken, Name: "Admin"}, nil
}

func (f *fakeBackend) Register(ctx context.Context, in api.RegisterRequest) (*models.Admin, error) {
	if err := admin(ctx); err != nil {
		return nil, err
	}
	f.registered = append(f.registered, in)
	return &models.Admin{ID: "a2", Name: in.Name, Email: in.Email}, nil
}

func (f *fakeBackend) ListProjects(context.Context, api.ProjectQuery) ([]models.Project, error) {
	return append([]models.Project(nil), f.projects...), nil
}

func (f *fakeBackend) GetProject(_ context.Context, id string) (*models.Project, error) {
	for _, p := range f.projects {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, &api.APIError{Status: 404, Message: "not found"}
}

func (f *fakeBackend) GetProjectBySlug(_ context.Context, slug string) (*models.Project, error) {
	for _, p := range f.projects {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, &api.APIError{Status: 404, Message: "not found"}
}

func (f *fakeBackend) CreateProject(ctx context.Context, form api.ProjectForm) (*models.Project, error) {
	return &models.Project{ID: "new", Slug: form.Slug}, admin(ctx)
}

func (f *fakeBackend) UpdateProject(ctx context.Context, id string, form api.ProjectForm) (*models.Project, error) {
	return &models.Project{ID: id, Slug: form.Slug}, admin(ctx)
}

func (f *fakeBackend) DeleteProject(ctx context.Context, id string) error {
	if err := f.fail(ctx, id); err != nil {
		return err
	}
	f.mu.Lock()
	f.deletedProjects = append(f.deletedProjects, id)
	f.mu.Unlock()
	return nil
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
	f.readMessages = append(f.readMessages, id)
	f.mu.Unlock()
	return &models.Message{ID: id, Status: status}, nil
}

func (f *fakeBackend) DeleteMessage(ctx context.Context, id string) error {
	if err := f.fail(ctx, id); err != nil {
		return err
	}
	f.mu.Lock()
	f.deletedMessages = append(f.deletedMessages, id)
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) ListTags(context.Context) ([]models.Tag, error) {
	return f.tags, nil
}

func (f *fakeBackend) CreateTag(ctx context.Context, name, color string) (*models.Tag, error) {
	if err := admin(ctx); err != nil {
		return nil, err
	}
	f.createdTags = append(f.createdTags, [2]string{name, color})
	return &models.Tag{ID: "t-new", Name: name, Color: color}, nil
}

func (f *fakeBackend) DeleteTag(ctx context.Context, id string) error {
	if err := admin(ctx); err != nil {
		return err
	}
	f.deletedTags = append(f.deletedTags, id)
	return nil
}

func (f *fakeBackend) GetSettings(context.Context) (*models.Settings, error) {
	s := f.settings
	return &s, nil
}

func (f *fakeBackend) fail(ctx context.Context, id string) error {
	if err := admin(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failIDs[id]
}

type fakeStore struct {
	sess   session.Session
	closed bool
}

func (s *fakeStore) Load(context.Context) (session.Session, error) { return s.sess, nil }

func (s *fakeStore) SaveLogin(_ context.Context, token, name string) error {
	s.sess.Token, s.sess.Name = token, name
	return nil
}

func (s *fakeStore) ClearLogin(context.Context) error {
	s.sess.Token, s.sess.Name = "", ""
	return nil
}

func (s *fakeStore) SetLang(_ context.Context, lang string) error {
	s.sess.Lang = lang
	return nil
}

func (s *fakeStore) Close() error {
	s.closed = true
	return nil
}

type testApp struct {
	*App
	backend *fakeBackend
	store   *fakeStore
	out     *bytes.Buffer
}

// newTestApp builds an App reading the given input lines.
func newTestApp(t *testing.T, sess session.Session, lines ...string) *testApp {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.OnlineCheckInterval = 0

	b := newFakeBackend()
	store := &fakeStore{sess: sess}
	out := &bytes.Buffer{}
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")

	a := newApp(cfg, b, store, logging.Nop(), in, out)
	if err := a.restore(context.Background()); err != nil {
		t.Fatal(err)
	}
	return &testApp{App: a, backend: b, store: store, out: out}
}

// stubPasswords makes getPassword return the given answers in order.
func stubPasswords(t *testing.T, answers ...string) {
	t.Helper()
	old := getPassword
	t.Cleanup(func() { getPassword = old })
	getPassword = func(string, io.Writer) ([]byte, error) {
		if len(answers) == 0 {
			return nil, io.EOF
		}
		pw := []byte(answers[0])
		answers = answers[1:]
		return pw, nil
	}
}

var loggedIn = session.Session{Token: goodToken, Name: "Admin", Lang: "en"}

var t0 = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
