package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/portfolio/internal/client/api"
	"github.com/dmitrijs2005/portfolio/internal/client/session"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

func TestAuth_LoginStoresSession(t *testing.T) {
	ctx := context.Background()
	f := newFakeAPI()
	f.session = &models.Session{Token: "tok", Name: "Admin"}
	store := &fakeStore{sess: session.Session{Lang: "uk"}}
	s := NewAuthService(f, store, logging.Nop())

	sess, err := s.Login(ctx, "  admin@example.com ", []byte("secret"))
	require.NoError(t, err)
	assert.Equal(t, "tok", sess.Token)
	assert.Equal(t, "admin@example.com", f.lastLogin.Email)

	cur, err := s.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.Session{Token: "tok", Name: "Admin", Lang: "uk"}, cur)

	require.NoError(t, s.Logout(ctx))
	cur, _ = s.Current(ctx)
	assert.False(t, cur.LoggedIn())
	assert.Equal(t, "uk", cur.Lang)
}

func TestAuth_LoginFailures(t *testing.T) {
	ctx := context.Background()

	f := newFakeAPI()
	f.loginErr = &api.APIError{Status: 401, Message: "invalid email or password"}
	store := &fakeStore{}
	_, err := NewAuthService(f, store, logging.Nop()).Login(ctx, "a@b.c", []byte("x"))
	assert.True(t, api.IsUnauthorized(err))
	assert.False(t, store.sess.LoggedIn())

	f = newFakeAPI()
	f.session = &models.Session{Token: "tok"}
	_, err = NewAuthService(f, &fakeStore{saveErr: errBoom}, logging.Nop()).Login(ctx, "a@b.c", []byte("x"))
	assert.ErrorIs(t, err, errBoom)
}

func TestAuth_RegisterChecksConfirmation(t *testing.T) {
	ctx := context.Background()
	f := newFakeAPI()
	s := NewAuthService(f, &fakeStore{}, logging.Nop())

	_, err := s.Register(ctx, "Ann", "ann@example.com", []byte("password1"), []byte("password2"))
	assert.ErrorIs(t, err, ErrPasswordMismatch)
	assert.Empty(t, f.registered)

	a, err := s.Register(ctx, " Ann ", "ann@example.com", []byte("password1"), []byte("password1"))
	require.NoError(t, err)
	assert.Equal(t, "Ann", a.Name)
	require.Len(t, f.registered, 1)
	assert.Equal(t, "password1", f.registered[0].Password)
}
