package projects

import (
	"context"

	"github.com/dmitrijs2005/portfolio/internal/models"
)

// ListOptions narrows List. Zero values mean "no restriction".
type ListOptions struct {
	FeaturedOnly bool
	Limit        int
}

type Repository interface {
	List(ctx context.Context, opts ListOptions) ([]models.Project, error)
	Get(ctx context.Context, id string) (*models.Project, error)
	GetBySlug(ctx context.Context, slug string) (*models.Project, error)
	Create(ctx context.Context, p *models.Project) (*models.Project, error)
	Update(ctx context.Context, p *models.Project) (*models.Project, error)
	Delete(ctx context.Context, id string) error
	SetTags(ctx context.Context, projectID string, tagIDs []string) error
}
