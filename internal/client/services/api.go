package services

import (
	"context"

	"github.com/dmitrijs2005/portfolio/internal/client/api"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

// API is the part of the backend client the admin services call. Admin
// calls expect the bearer token in ctx (see api.WithToken).
type API interface {
	Health(ctx context.Context) error
	Login(ctx context.Context, in api.LoginRequest) (*models.Session, error)
	Register(ctx context.Context, in api.RegisterRequest) (*models.Admin, error)

	ListProjects(ctx context.Context, q api.ProjectQuery) ([]models.Project, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	CreateProject(ctx context.Context, f api.ProjectForm) (*models.Project, error)
	UpdateProject(ctx context.Context, id string, f api.ProjectForm) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) error

	ListMessages(ctx context.Context) ([]models.Message, error)
	SetMessageStatus(ctx context.Context, id string, status models.MessageStatus) (*models.Message, error)
	DeleteMessage(ctx context.Context, id string) error

	GetSettings(ctx context.Context) (*models.Settings, error)
}

var _ API = (*api.Client)(nil)

// apiAllProjects is the unfiltered project query.
var apiAllProjects = api.ProjectQuery{}
