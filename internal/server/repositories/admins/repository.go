package admins

import (
	"context"

	"github.com/dmitrijs2005/portfolio/internal/models"
)

type Repository interface {
	Create(ctx context.Context, admin *models.Admin) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	Count(ctx context.Context) (int, error)
}
