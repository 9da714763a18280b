package tags

import (
	"context"

	"github.com/dmitrijs2005/portfolio/internal/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Tag, error)
	Get(ctx context.Context, id string) (*models.Tag, error)
	GetByName(ctx context.Context, name string) (*models.Tag, error)
	Create(ctx context.Context, tag *models.Tag) (*models.Tag, error)
	Delete(ctx context.Context, id string) error
}
