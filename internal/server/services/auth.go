package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/models"
	"github.com/dmitrijs2005/portfolio/internal/server/auth"
	"github.com/dmitrijs2005/portfolio/internal/server/config"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/portfolio/internal/server/validation"
	"github.com/google/uuid"
)

// LoginInput is the body of POST /api/auth/login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

// RegisterInput is the body of POST /api/auth/register.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// AuthService logs admins in and registers new ones.
type AuthService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	logger        logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *AuthService {
	return &AuthService{
		db:            db,
		repomanager:   m,
		logger:        logger.With("service", "auth"),
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidity,
	}
}

// Login checks the credentials and returns a signed session token.
// Unknown emails and wrong passwords both yield common.ErrorUnauthorized.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.Session, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	admin, err := s.repomanager.Admins(s.db).GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "admin lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	ok, err := auth.CheckPassword(admin.PasswordHash, in.Password)
	if err != nil {
		s.logger.Error(ctx, "password check failed", "admin", admin.ID, "error", err)
		return nil, common.ErrorInternal
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(admin.ID, admin.Name, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "admin logged in", "admin", admin.ID)
	return &models.Session{Token: token, Name: admin.Name}, nil
}

// Register creates an admin account. Duplicate emails yield
// common.ErrorAlreadyExists.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.Admin, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin, err := s.repomanager.Admins(s.db).Create(ctx, &models.Admin{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "admin registered", "admin", admin.ID)
	return admin, nil
}

// EnsureBootstrapAdmin creates the first admin from configuration when no
// admin exists yet. It reports whether an account was created.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, name, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}

	n, err := s.repomanager.Admins(s.db).Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	if name == "" {
		name = "Admin"
	}
	if _, err := s.Register(ctx, RegisterInput{Name: name, Email: email, Password: password}); err != nil {
		return false, fmt.Errorf("bootstrap admin: %w", err)
	}
	return true, nil
}

// Authenticate validates a bearer token.
func (s *AuthService) Authenticate(token string) (*auth.Claims, error) {
	return auth.ParseToken(token, s.jwtSecret)
}
