package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/models"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/portfolio/internal/server/validation"
)

type SettingsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewSettingsService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *SettingsService {
	return &SettingsService{db: db, repomanager: m, logger: logger.With("service", "settings")}
}

// Get returns the saved settings, or empty defaults when none were saved.
func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	st, err := s.repomanager.Settings(s.db).Get(ctx)
	if errors.Is(err, common.ErrorNotFound) {
		return &models.Settings{Phones: []string{}}, nil
	}
	return st, err
}

func (s *SettingsService) Save(ctx context.Context, in models.Settings) (*models.Settings, error) {
	in.Normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	st, err := s.repomanager.Settings(s.db).Upsert(ctx, &in)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "settings saved")
	return st, nil
}
