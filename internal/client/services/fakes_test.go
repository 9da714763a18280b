package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/portfolio/internal/client/api"
	"github.com/dmitrijs2005/portfolio/internal/client/session"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

var errBoom = errors.New("boom")

type fakeAPI struct {
	mu sync.Mutex

	projects []models.Project
	messages []models.Message
	settings *models.Settings

	projectsErr error
	messagesErr error
	settingsErr error
	failIDs     map[string]error

	session     *models.Session
	loginErr    error
	lastLogin   api.LoginRequest
	registered  []api.RegisterRequest
	statusCalls map[string]models.MessageStatus
	deleted     []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		failIDs:     map[string]error{},
		statusCalls: map[string]models.MessageStatus{},
		settings:    &models.Settings{},
	}
}

func (f *fakeAPI) Health(context.Context) error { return f.projectsErr }

func (f *fakeAPI) Login(_ context.Context, in api.LoginRequest) (*models.Session, error) {
	f.lastLogin = in
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.session, nil
}

func (f *fakeAPI) Register(_ context.Context, in api.RegisterRequest) (*models.Admin, error) {
	f.registered = append(f.registered, in)
	return &models.Admin{ID: "a2", Name: in.Name, Email: in.Email}, nil
}

func (f *fakeAPI) ListProjects(context.Context, api.ProjectQuery) ([]models.Project, error) {
	if f.projectsErr != nil {
		return nil, f.projectsErr
	}
	return append([]models.Project(nil), f.projects...), nil
}

func (f *fakeAPI) GetProject(_ context.Context, id string) (*models.Project, error) {
	for _, p := range f.projects {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, &api.APIError{Status: 404, Message: "not found"}
}

func (f *fakeAPI) CreateProject(_ context.Context, form api.ProjectForm) (*models.Project, error) {
	return &models.Project{ID: "new", Slug: form.Slug}, nil
}

func (f *fakeAPI) UpdateProject(_ context.Context, id string, form api.ProjectForm) (*models.Project, error) {
	return &models.Project{ID: id, Slug: form.Slug}, nil
}

func (f *fakeAPI) DeleteProject(_ context.Context, id string) error {
	return f.remove(id)
}

func (f *fakeAPI) ListMessages(context.Context) ([]models.Message, error) {
	if f.messagesErr != nil {
		return nil, f.messagesErr
	}
	return append([]models.Message(nil), f.messages...), nil
}

func (f *fakeAPI) SetMessageStatus(_ context.Context, id string, status models.MessageStatus) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failIDs[id]; err != nil {
		return nil, err
	}
	f.statusCalls[id] = status
	return &models.Message{ID: id, Status: status}, nil
}

func (f *fakeAPI) DeleteMessage(_ context.Context, id string) error {
	return f.remove(id)
}

func (f *fakeAPI) GetSettings(context.Context) (*models.Settings, error) {
	if f.settingsErr != nil {
		return nil, f.settingsErr
	}
	return f.settings, nil
}

func (f *fakeAPI) remove(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failIDs[id]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeStore struct {
	sess    session.Session
	saveErr error
}

func (s *fakeStore) Load(context.Context) (session.Session, error) { return s.sess, nil }

func (s *fakeStore) SaveLogin(_ context.Context, token, name string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.sess.Token, s.sess.Name = token, name
	return nil
}

func (s *fakeStore) ClearLogin(context.Context) error {
	s.sess.Token, s.sess.Name = "", ""
	return nil
}
