package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/dbx"
	"github.com/dmitrijs2005/portfolio/internal/models"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/admins"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/messages"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/projects"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/settings"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/tags"
	"github.com/stretchr/testify/require"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

// ---- admins ----

type fakeAdmins struct {
	byEmail   map[string]*models.Admin
	createErr error
	getErr    error
	countErr  error
}

func (f *fakeAdmins) Create(_ context.Context, a *models.Admin) (*models.Admin, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	key := strings.ToLower(a.Email)
	if _, ok := f.byEmail[key]; ok {
		return nil, common.ErrorAlreadyExists
	}
	cp := *a
	f.byEmail[key] = &cp
	return &cp, nil
}

func (f *fakeAdmins) GetByEmail(_ context.Context, email string) (*models.Admin, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	a, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return a, nil
}

func (f *fakeAdmins) Count(context.Context) (int, error) {
	return len(f.byEmail), f.countErr
}

// ---- tags ----

type fakeTags struct {
	items     map[string]models.Tag
	createErr error
}

func (f *fakeTags) List(context.Context) ([]models.Tag, error) {
	out := make([]models.Tag, 0, len(f.items))
	for _, t := range f.items {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out, nil
}

func (f *fakeTags) Get(_ context.Context, id string) (*models.Tag, error) {
	t, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &t, nil
}

func (f *fakeTags) GetByName(_ context.Context, name string) (*models.Tag, error) {
	for _, t := range f.items {
		if strings.EqualFold(t.Name, name) {
			return &t, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeTags) Create(_ context.Context, t *models.Tag) (*models.Tag, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, cur := range f.items {
		if strings.EqualFold(cur.Name, t.Name) {
			return nil, common.ErrorAlreadyExists
		}
	}
	f.items[t.ID] = *t
	return t, nil
}

func (f *fakeTags) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.items, id)
	return nil
}

// ---- projects ----

type fakeProjects struct {
	items     map[string]models.Project
	tags      *fakeTags
	lastOpts  projects.ListOptions
	createErr error
	deleteErr error
}

func (f *fakeProjects) List(_ context.Context, opts projects.ListOptions) ([]models.Project, error) {
	f.lastOpts = opts
	out := make([]models.Project, 0, len(f.items))
	for _, p := range f.items {
		if opts.FeaturedOnly && !p.IsFeatured {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProjects) Get(_ context.Context, id string) (*models.Project, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &p, nil
}

func (f *fakeProjects) GetBySlug(_ context.Context, slug string) (*models.Project, error) {
	for _, p := range f.items {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeProjects) Create(_ context.Context, p *models.Project) (*models.Project, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, cur := range f.items {
		if cur.Slug == p.Slug {
			return nil, common.ErrorAlreadyExists
		}
	}
	f.items[p.ID] = *p
	return p, nil
}

func (f *fakeProjects) Update(_ context.Context, p *models.Project) (*models.Project, error) {
	cur, ok := f.items[p.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	p.Tags = cur.Tags
	f.items[p.ID] = *p
	return p, nil
}

func (f *fakeProjects) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.items[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeProjects) SetTags(_ context.Context, projectID string, tagIDs []string) error {
	p, ok := f.items[projectID]
	if !ok {
		return common.ErrorNotFound
	}
	p.Tags = make([]models.Tag, 0, len(tagIDs))
	for _, id := range tagIDs {
		t, ok := f.tags.items[id]
		if !ok {
			return common.ErrorNotFound
		}
		p.Tags = append(p.Tags, t)
	}
	f.items[projectID] = p
	return nil
}

// ---- messages ----

type fakeMessages struct {
	items []models.Message
}

func (f *fakeMessages) List(context.Context) ([]models.Message, error) {
	return append([]models.Message{}, f.items...), nil
}

func (f *fakeMessages) Create(_ context.Context, m *models.Message) (*models.Message, error) {
	f.items = append([]models.Message{*m}, f.items...)
	return m, nil
}

func (f *fakeMessages) SetStatus(_ context.Context, id string, status models.MessageStatus) (*models.Message, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Status = status
			m := f.items[i]
			return &m, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeMessages) Delete(_ context.Context, id string) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

// ---- settings ----

type fakeSettings struct {
	saved  *models.Settings
	getErr error
}

func (f *fakeSettings) Get(context.Context) (*models.Settings, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.saved == nil {
		return nil, common.ErrorNotFound
	}
	cp := *f.saved
	return &cp, nil
}

func (f *fakeSettings) Upsert(_ context.Context, s *models.Settings) (*models.Settings, error) {
	cp := *s
	f.saved = &cp
	return &cp, nil
}

// ---- manager ----

type fakeRepoManager struct {
	admins   *fakeAdmins
	projects *fakeProjects
	tags     *fakeTags
	messages *fakeMessages
	settings *fakeSettings
}

func newFakeRepoManager() *fakeRepoManager {
	t := &fakeTags{items: map[string]models.Tag{}}
	return &fakeRepoManager{
		admins:   &fakeAdmins{byEmail: map[string]*models.Admin{}},
		projects: &fakeProjects{items: map[string]models.Project{}, tags: t},
		tags:     t,
		messages: &fakeMessages{},
		settings: &fakeSettings{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Admins(dbx.DBTX) admins.Repository { return m.admins }
func (m *fakeRepoManager) Projects(dbx.DBTX) projects.Repository { return m.projects }
func (m *fakeRepoManager) Tags(dbx.DBTX) tags.Repository { return m.tags }
func (m *fakeRepoManager) Messages(dbx.DBTX) messages.Repository { return m.messages }
func (m *fakeRepoManager) Settings(dbx.DBTX) settings.Repository { return m.settings }

// ---- media ----

type fakeMedia struct {
	mu      sync.Mutex
	objects map[string]string
	deleted []string
	putErr  error
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{objects: map[string]string{}}
}

func (f *fakeMedia) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	url := "https://cdn.test/" + key
	f.objects[url] = string(b)
	return url, nil
}

func (f *fakeMedia) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, url)
	delete(f.objects, url)
	return nil
}

func upload(name, body string) Upload {
	return Upload{
		Name:        name,
		ContentType: "image/png",
		Size:        int64(len(body)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

func failingUpload(name string) Upload {
	return Upload{Name: name, Open: func() (io.ReadCloser, error) { return nil, errors.New("boom") }}
}
