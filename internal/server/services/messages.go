package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/models"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/portfolio/internal/server/validation"
	"github.com/google/uuid"
)

// ContactInput is the body of POST /api/contact.
type ContactInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone" validate:"omitempty,max=40"`
	Message string `json:"message" validate:"required,max=5000"`
}

type statusInput struct {
	Status models.MessageStatus `json:"status" validate:"required,msgstatus"`
}

type MessageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewMessageService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *MessageService {
	return &MessageService{db: db, repomanager: m, logger: logger.With("service", "messages")}
}

// List returns the inbox newest first.
func (s *MessageService) List(ctx context.Context) ([]models.Message, error) {
	return s.repomanager.Messages(s.db).List(ctx)
}

// Submit stores a contact-form message with status "new".
func (s *MessageService) Submit(ctx context.Context, in ContactInput) (*models.Message, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Message = strings.TrimSpace(in.Message)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	msg, err := s.repomanager.Messages(s.db).Create(ctx, &models.Message{
		ID:      uuid.NewString(),
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Message: in.Message,
		Status:  models.MessageNew,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "message received", "message", msg.ID)
	return msg, nil
}

func (s *MessageService) SetStatus(ctx context.Context, id string, status models.MessageStatus) (*models.Message, error) {
	if err := validation.Struct(statusInput{Status: status}); err != nil {
		return nil, err
	}
	return s.repomanager.Messages(s.db).SetStatus(ctx, id, status)
}

func (s *MessageService) Delete(ctx context.Context, id string) error {
	if err := s.repomanager.Messages(s.db).Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "message deleted", "message", id)
	return nil
}
