package tags

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

var tagCols = []string{"id", "name", "color", "slug", "created_at"}

func TestList(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)^SELECT id, name, color, slug, created_at FROM tags ORDER BY lower\(name\)$`).
		WillReturnRows(sqlmock.NewRows(tagCols).
			AddRow("t1", "Backend", "#112233", "backend", now).
			AddRow("t2", "CLI", "#445566", "cli", now))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Backend", got[0].Name)
	assert.Equal(t, "#445566", got[1].Color)
}

func TestList_Empty(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`FROM tags`).WillReturnRows(sqlmock.NewRows(tagCols))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGet_NotFoundAndInvalidID(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`WHERE id = \$1`).WithArgs("missing").WillReturnError(sql.ErrNoRows)
	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	mock.ExpectQuery(`WHERE id = \$1`).WithArgs("not-a-uuid").WillReturnError(&pgconn.PgError{Code: "22P02"})
	_, err = repo.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByName(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`WHERE lower\(name\) = lower\(\$1\)`).WithArgs("backend").
		WillReturnRows(sqlmock.NewRows(tagCols).AddRow("t1", "Backend", "#112233", "backend", time.Now()))

	got, err := repo.GetByName(context.Background(), "backend")
	require.NoError(t, err)
	assert.Equal(t, "t1", got.ID)
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	q := `(?s)^INSERT\s+INTO\s+tags\s*\(id,\s*name,\s*color,\s*slug\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+created_at$`

	mock.ExpectQuery(q).WithArgs("t1", "Go", "#00ADD8", "go").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	got, err := repo.Create(context.Background(), &models.Tag{ID: "t1", Name: "Go", Color: "#00ADD8", Slug: "go"})
	require.NoError(t, err)
	assert.False(t, got.CreatedAt.IsZero())

	mock.ExpectQuery(q).WillReturnError(&pgconn.PgError{Code: "23505"})
	_, err = repo.Create(context.Background(), &models.Tag{ID: "t2", Name: "Go", Slug: "go"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`^DELETE FROM tags WHERE id = \$1$`).WithArgs("t1").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "t1"))

	mock.ExpectExec(`^DELETE FROM tags`).WithArgs("t9").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "t9"), common.ErrorNotFound)

	mock.ExpectExec(`^DELETE FROM tags`).WithArgs("t1").WillReturnError(errors.New("db down"))
	assert.ErrorContains(t, repo.Delete(context.Background(), "t1"), "db error: db down")
}
