package rest

import (
	"context"
	"io"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/models"
	"github.com/dmitrijs2005/portfolio/internal/server/auth"
	"github.com/dmitrijs2005/portfolio/internal/server/services"
)

const goodToken = "good-token"

type fakeAuth struct {
	registered *services.RegisterInput
}

func (f *fakeAuth) Login(_ context.Context, in services.LoginInput) (*models.Session, error) {
	if in.Email == "admin@example.com" && in.Password == "password1" {
		return &models.Session{Token: goodToken, Name: "Admin"}, nil
	}
	return nil, common.ErrorUnauthorized
}

func (f *fakeAuth) Register(_ context.Context, in services.RegisterInput) (*models.Admin, error) {
	if in.Email == "taken@example.com" {
		return nil, common.ErrorAlreadyExists
	}
	f.registered = &in
	return &models.Admin{ID: "a2", Name: in.Name, Email: in.Email}, nil
}

func (f *fakeAuth) Authenticate(token string) (*auth.Claims, error) {
	switch token {
	case goodToken:
		return &auth.Claims{AdminID: "a1", Name: "Admin"}, nil
	case "expired":
		return nil, common.ErrTokenExpired
	default:
		return nil, common.ErrInvalidToken
	}
}

type fakeProjects struct {
	items      []models.Project
	featured   bool
	limit      int
	input      *services.ProjectInput
	patch      *services.ProjectPatch
	uploaded   map[string]string
	deletedIDs []string
	createErr  error
}

func (f *fakeProjects) List(_ context.Context, featuredOnly bool, limit int) ([]models.Project, error) {
	f.featured, f.limit = featuredOnly, limit
	return f.items, nil
}

func (f *fakeProjects) Get(_ context.Context, id string) (*models.Project, error) {
	for _, p := range f.items {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeProjects) GetBySlug(_ context.Context, slug string) (*models.Project, error) {
	for _, p := range f.items {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeProjects) Create(_ context.Context, in services.ProjectInput) (*models.Project, error) {
	f.input = &in
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.uploaded = map[string]string{}
	if in.MainImage != nil {
		f.uploaded[in.MainImage.Name] = readUpload(*in.MainImage)
	}
	for _, g := range in.Gallery {
		f.uploaded[g.Name] = readUpload(g)
	}
	return &models.Project{ID: "new", Slug: in.Slug}, nil
}

func (f *fakeProjects) Update(_ context.Context, id string, patch services.ProjectPatch) (*models.Project, error) {
	f.patch = &patch
	if _, err := f.Get(context.Background(), id); err != nil {
		return nil, err
	}
	return &models.Project{ID: id}, nil
}

func (f *fakeProjects) Delete(_ context.Context, id string) error {
	if _, err := f.Get(context.Background(), id); err != nil {
		return err
	}
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func readUpload(u services.Upload) string {
	r, err := u.Open()
	if err != nil {
		return ""
	}
	defer r.Close()
	b, _ := io.ReadAll(r)
	return string(b)
}

type fakeTags struct {
	items []models.Tag
}

func (f *fakeTags) List(context.Context) ([]models.Tag, error) { return f.items, nil }

func (f *fakeTags) Create(_ context.Context, in services.TagInput) (*models.Tag, error) {
	for _, t := range f.items {
		if t.Name == in.Name {
			return nil, common.ErrorAlreadyExists
		}
	}
	t := models.Tag{ID: "t" + in.Name, Name: in.Name, Color: in.Color}
	f.items = append(f.items, t)
	return &t, nil
}

func (f *fakeTags) Delete(_ context.Context, id string) error {
	for i, t := range f.items {
		if t.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeMessages struct {
	items     []models.Message
	submitted []services.ContactInput
}

func (f *fakeMessages) List(context.Context) ([]models.Message, error) { return f.items, nil }

func (f *fakeMessages) Submit(_ context.Context, in services.ContactInput) (*models.Message, error) {
	if in.Name == "" {
		return nil, (&common.ValidationError{}).Add("name", "is required")
	}
	f.submitted = append(f.submitted, in)
	return &models.Message{ID: "m-new"}, nil
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

type fakeSettings struct {
	saved models.Settings
}

func (f *fakeSettings) Get(context.Context) (*models.Settings, error) {
	st := f.saved
	return &st, nil
}

func (f *fakeSettings) Save(_ context.Context, in models.Settings) (*models.Settings, error) {
	if in.Email == "" {
		return nil, (&common.ValidationError{}).Add("email", "is required")
	}
	f.saved = in
	return &in, nil
}
