package settings

import (
	"context"

	"github.com/dmitrijs2005/portfolio/internal/models"
)

type Repository interface {
	Get(ctx context.Context) (*models.Settings, error)
	Upsert(ctx context.Context, s *models.Settings) (*models.Settings, error)
}
