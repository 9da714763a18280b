package tags

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/dbx"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Tag, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, color, slug, created_at FROM tags ORDER BY lower(name)`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Tag, 0)
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Slug, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Tag, error) {
	return r.getOne(ctx, `SELECT id, name, color, slug, created_at FROM tags WHERE id = $1`, id)
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	return r.getOne(ctx, `SELECT id, name, color, slug, created_at FROM tags WHERE lower(name) = lower($1)`, name)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg string) (*models.Tag, error) {
	t := &models.Tag{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&t.ID, &t.Name, &t.Color, &t.Slug, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidInput(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) Create(ctx context.Context, tag *models.Tag) (*models.Tag, error) {
	query :=
		`INSERT INTO tags (id, name, color, slug)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, tag.ID, tag.Name, tag.Color, tag.Slug).Scan(&tag.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return tag, nil
}

// Delete removes the tag; project links go with it via ON DELETE CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		if dbx.IsInvalidInput(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RequireAffected(res)
}
