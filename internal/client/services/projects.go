package services

import (
	"context"

	"github.com/dmitrijs2005/portfolio/internal/client/api"
	"github.com/dmitrijs2005/portfolio/internal/client/batch"
	"github.com/dmitrijs2005/portfolio/internal/client/listing"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

type ProjectsService struct {
	api    API
	limit  int
	logger logging.Logger
}

func NewProjectsService(a API, limit int, logger logging.Logger) *ProjectsService {
	return &ProjectsService{api: a, limit: limit, logger: logger.With("module", "projects")}
}

// List returns all projects, newest first.
func (s *ProjectsService) List(ctx context.Context) ([]models.Project, error) {
	ps, err := s.api.ListProjects(ctx, apiAllProjects)
	if err != nil {
		return nil, err
	}
	listing.SortProjects(ps)
	return ps, nil
}

func (s *ProjectsService) Get(ctx context.Context, id string) (*models.Project, error) {
	return s.api.GetProject(ctx, id)
}

func (s *ProjectsService) Create(ctx context.Context, f api.ProjectForm) (*models.Project, error) {
	p, err := s.api.CreateProject(ctx, f)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "project created", "id", p.ID, "slug", p.Slug)
	return p, nil
}

func (s *ProjectsService) Update(ctx context.Context, id string, f api.ProjectForm) (*models.Project, error) {
	p, err := s.api.UpdateProject(ctx, id, f)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "project updated", "id", p.ID)
	return p, nil
}

// Delete removes the projects in ids, one call per id.
func (s *ProjectsService) Delete(ctx context.Context, ids []string) batch.Result {
	res := batch.Run(ctx, ids, s.limit, s.api.DeleteProject)
	if err := res.Err(); err != nil {
		s.logger.Warn(ctx, "bulk delete partially failed", "failed", len(res.Failed()), "error", err)
	}
	return res
}
