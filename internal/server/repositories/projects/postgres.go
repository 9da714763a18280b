package projects

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/dbx"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

// selectColumns aggregates the ordered tags of each project into one JSON
// column so a listing is a single round trip.
const selectColumns = `SELECT p.id, p.slug, p.stage, p.is_featured, p.tech_stack, p.links,
		 p.main_image, p.gallery, p.translations, p.created_at, p.updated_at,
		 COALESCE((
		   SELECT json_agg(json_build_object('id', t.id, 'name', t.name, 'color', t.color, 'slug', t.slug) ORDER BY pt.position)
		   FROM project_tags pt JOIN tags t ON t.id = pt.tag_id
		   WHERE pt.project_id = p.id
		 ), '[]') AS tags
		 FROM projects p`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*models.Project, error) {
	var tech, links, gallery, translations, tags []byte
	p := &models.Project{}

	err := row.Scan(&p.ID, &p.Slug, &p.Stage, &p.IsFeatured, &tech, &links,
		&p.MainImage, &gallery, &translations, &p.CreatedAt, &p.UpdatedAt, &tags)
	if err != nil {
		return nil, err
	}

	for _, c := range []struct {
		raw  []byte
		dest any
		name string
	}{
		{tech, &p.TechStack, "tech_stack"},
		{links, &p.Links, "links"},
		{gallery, &p.Gallery, "gallery"},
		{translations, &p.Translations, "translations"},
		{tags, &p.Tags, "tags"},
	} {
		if len(c.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(c.raw, c.dest); err != nil {
			return nil, fmt.Errorf("decode %s: %w", c.name, err)
		}
	}

	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	if p.Gallery == nil {
		p.Gallery = []string{}
	}
	if p.Tags == nil {
		p.Tags = []models.Tag{}
	}

	return p, nil
}

// List returns projects newest first.
func (r *PostgresRepository) List(ctx context.Context, opts ListOptions) ([]models.Project, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(selectColumns)
	if opts.FeaturedOnly {
		sb.WriteString(" WHERE p.is_featured")
	}
	sb.WriteString(" ORDER BY p.created_at DESC")
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		sb.WriteString(" LIMIT $1")
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Project, error) {
	return r.getOne(ctx, selectColumns+" WHERE p.id = $1", id)
}

func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	return r.getOne(ctx, selectColumns+" WHERE p.slug = $1", slug)
}

func (r *PostgresRepository) getOne(ctx context.Context, query, arg string) (*models.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidInput(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

type jsonColumns struct {
	tech, links, gallery, translations []byte
}

func encodeColumns(p *models.Project) (*jsonColumns, error) {
	var (
		c   jsonColumns
		err error
	)
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	if p.Gallery == nil {
		p.Gallery = []string{}
	}
	if p.Translations == nil {
		p.Translations = map[string]models.ProjectText{}
	}
	if c.tech, err = json.Marshal(p.TechStack); err != nil {
		return nil, err
	}
	if c.links, err = json.Marshal(p.Links); err != nil {
		return nil, err
	}
	if c.gallery, err = json.Marshal(p.Gallery); err != nil {
		return nil, err
	}
	if c.translations, err = json.Marshal(p.Translations); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts p. Tags are linked separately with SetTags.
func (r *PostgresRepository) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	c, err := encodeColumns(p)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO projects (id, slug, stage, is_featured, tech_stack, links, main_image, gallery, translations)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at, updated_at`

	err = r.db.QueryRowContext(ctx, query,
		p.ID, p.Slug, p.Stage, p.IsFeatured, c.tech, c.links, p.MainImage, c.gallery, c.translations).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

// Update overwrites every stored column of p and bumps updated_at.
func (r *PostgresRepository) Update(ctx context.Context, p *models.Project) (*models.Project, error) {
	c, err := encodeColumns(p)
	if err != nil {
		return nil, err
	}

	query :=
		`UPDATE projects SET slug = $2, stage = $3, is_featured = $4, tech_stack = $5, links = $6,
		   main_image = $7, gallery = $8, translations = $9, updated_at = now()
		 WHERE id = $1
		 RETURNING created_at, updated_at`

	err = r.db.QueryRowContext(ctx, query,
		p.ID, p.Slug, p.Stage, p.IsFeatured, c.tech, c.links, p.MainImage, c.gallery, c.translations).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows), dbx.IsInvalidInput(err):
			return nil, common.ErrorNotFound
		case dbx.IsUniqueViolation(err):
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		if dbx.IsInvalidInput(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RequireAffected(res)
}

// SetTags replaces the project's tag links, keeping tagIDs order.
// Run it inside a transaction together with Create or Update.
func (r *PostgresRepository) SetTags(ctx context.Context, projectID string, tagIDs []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM project_tags WHERE project_id = $1`, projectID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	for i, tagID := range tagIDs {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO project_tags (project_id, tag_id, position) VALUES ($1, $2, $3)`,
			projectID, tagID, i)
		if err != nil {
			if dbx.IsForeignKeyViolation(err) || dbx.IsInvalidInput(err) {
				return fmt.Errorf("tag %s: %w", tagID, common.ErrorNotFound)
			}
			return fmt.Errorf("db error: %w", err)
		}
	}

	return nil
}
