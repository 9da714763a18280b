package messages

import (
	"context"

	"github.com/dmitrijs2005/portfolio/internal/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Message, error)
	Create(ctx context.Context, msg *models.Message) (*models.Message, error)
	SetStatus(ctx context.Context, id string, status models.MessageStatus) (*models.Message, error)
	Delete(ctx context.Context, id string) error
}
