package services

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/portfolio/internal/client/api"
	"github.com/dmitrijs2005/portfolio/internal/client/session"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

// ErrPasswordMismatch is returned by Register when the confirmation differs.
var ErrPasswordMismatch = errors.New("passwords do not match")

// SessionStore persists the console login.
type SessionStore interface {
	Load(ctx context.Context) (session.Session, error)
	SaveLogin(ctx context.Context, token, name string) error
	ClearLogin(ctx context.Context) error
}

// AuthService logs the console in and out.
type AuthService struct {
	api    API
	store  SessionStore
	logger logging.Logger
}

func NewAuthService(a API, store SessionStore, logger logging.Logger) *AuthService {
	return &AuthService{api: a, store: store, logger: logger.With("module", "auth")}
}

// Login authenticates and stores the token and display name.
func (s *AuthService) Login(ctx context.Context, email string, password []byte) (*models.Session, error) {
	sess, err := s.api.Login(ctx, api.LoginRequest{Email: strings.TrimSpace(email), Password: string(password)})
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveLogin(ctx, sess.Token, sess.Name); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "logged in", "name", sess.Name)
	return sess, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.store.ClearLogin(ctx)
}

// Current returns the stored session.
func (s *AuthService) Current(ctx context.Context) (session.Session, error) {
	return s.store.Load(ctx)
}

// Register creates another admin. It needs an authenticated ctx and checks
// the confirmation before calling the backend.
func (s *AuthService) Register(ctx context.Context, name, email string, password, confirm []byte) (*models.Admin, error) {
	if !bytes.Equal(password, confirm) {
		return nil, ErrPasswordMismatch
	}
	return s.api.Register(ctx, api.RegisterRequest{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: string(password),
	})
}
