package server

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/portfolio/internal/dbx"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/server/config"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/admins"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/messages"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/projects"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/settings"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/tags"
	"github.com/dmitrijs2005/portfolio/internal/server/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepoManager struct {
	migrateErr error
}

func (m *stubRepoManager) RunMigrations(context.Context, *sql.DB) error { return m.migrateErr }
func (m *stubRepoManager) Admins(dbx.DBTX) admins.Repository { return nil }
func (m *stubRepoManager) Projects(dbx.DBTX) projects.Repository { return nil }
func (m *stubRepoManager) Tags(dbx.DBTX) tags.Repository { return nil }
func (m *stubRepoManager) Messages(dbx.DBTX) messages.Repository { return nil }
func (m *stubRepoManager) Settings(dbx.DBTX) settings.Repository { return nil }

func withRepoManager(t *testing.T, rm repomanager.RepositoryManager) {
	t.Helper()
	orig := newRepositoryManager
	newRepositoryManager = func() repomanager.RepositoryManager { return rm }
	t.Cleanup(func() { newRepositoryManager = orig })
}

func testConfig(t *testing.T) *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.MediaDir = filepath.Join(t.TempDir(), "uploads")
	return c
}

func TestNewApp_WiresHealthToDatabase(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	withRepoManager(t, &stubRepoManager{})

	app, err := newApp(context.Background(), testConfig(t), logging.Nop(), db)
	require.NoError(t, err)

	mock.ExpectPing()
	w := httptest.NewRecorder()
	app.rest.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	mock.ExpectPing().WillReturnError(errors.New("gone"))
	w = httptest.NewRecorder()
	app.rest.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewApp_MigrationError(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	withRepoManager(t, &stubRepoManager{migrateErr: errors.New("bad sql")})

	_, err = newApp(context.Background(), testConfig(t), logging.Nop(), db)
	assert.ErrorContains(t, err, "migrations: bad sql")
}

func TestNewApp_OpenDBError(t *testing.T) {
	orig := openDB
	openDB = func(context.Context, string) (*sql.DB, error) { return nil, errors.New("refused") }
	t.Cleanup(func() { openDB = orig })

	_, err := NewApp(context.Background(), testConfig(t))
	assert.ErrorContains(t, err, "db init error: refused")
}

func TestNewMediaStore(t *testing.T) {
	ctx := context.Background()

	c := testConfig(t)
	st, dir, err := newMediaStore(ctx, c)
	require.NoError(t, err)
	assert.IsType(t, &storage.LocalStore{}, st)
	assert.DirExists(t, dir)

	var got storage.S3Options
	orig := newS3Store
	newS3Store = func(_ context.Context, o storage.S3Options) (*storage.S3Store, error) {
		got = o
		return &storage.S3Store{}, nil
	}
	t.Cleanup(func() { newS3Store = orig })

	c.MediaBackend = config.MediaS3
	st, dir, err = newMediaStore(ctx, c)
	require.NoError(t, err)
	assert.IsType(t, &storage.S3Store{}, st)
	assert.Empty(t, dir)
	assert.Equal(t, "portfolio", got.Bucket)
	assert.Equal(t, c.S3BaseEndpoint, got.Endpoint)

	c.MediaBackend = "ftp"
	_, _, err = newMediaStore(ctx, c)
	assert.ErrorContains(t, err, "unknown media backend")
}
