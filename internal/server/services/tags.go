package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/models"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/tags"
	"github.com/dmitrijs2005/portfolio/internal/server/validation"
	"github.com/google/uuid"
)

// TagInput is the body of POST /api/tags.
type TagInput struct {
	Name  string `json:"name" validate:"required,max=50"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

type TagService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewTagService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *TagService {
	return &TagService{db: db, repomanager: m, logger: logger.With("service", "tags")}
}

func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	return s.repomanager.Tags(s.db).List(ctx)
}

func (s *TagService) Create(ctx context.Context, in TagInput) (*models.Tag, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Color = strings.TrimSpace(in.Color)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.Color == "" {
		in.Color = models.DefaultTagColor
	}

	tag, err := newTag(in.Name, in.Color)
	if err != nil {
		return nil, err
	}

	tag, err = s.repomanager.Tags(s.db).Create(ctx, tag)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "tag created", "tag", tag.ID, "name", tag.Name)
	return tag, nil
}

func (s *TagService) Delete(ctx context.Context, id string) error {
	if err := s.repomanager.Tags(s.db).Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "tag deleted", "tag", id)
	return nil
}

func newTag(name, color string) (*models.Tag, error) {
	slug := models.TagSlug(name)
	if slug == "" {
		return nil, (&common.ValidationError{}).Add("name", "must contain letters or digits")
	}
	return &models.Tag{ID: uuid.NewString(), Name: name, Color: color, Slug: slug}, nil
}

// resolveTags maps each value to a tag id. A value naming an existing tag id
// is kept, any other value is a tag name: found case-insensitively or created
// with the default color. Duplicates are dropped, order is kept.
func resolveTags(ctx context.Context, repo tags.Repository, values []string) ([]string, error) {
	ids := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))

	add := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	for _, raw := range values {
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}

		if _, err := uuid.Parse(v); err == nil {
			t, err := repo.Get(ctx, v)
			if err == nil {
				add(t.ID)
				continue
			}
			if !errors.Is(err, common.ErrorNotFound) {
				return nil, err
			}
			return nil, (&common.ValidationError{}).Add("tags", "unknown tag "+v)
		}

		t, err := repo.GetByName(ctx, v)
		switch {
		case err == nil:
			add(t.ID)
			continue
		case !errors.Is(err, common.ErrorNotFound):
			return nil, err
		}

		if len(v) > 50 {
			return nil, (&common.ValidationError{}).Add("tags", "tag names must be at most 50 characters")
		}
		t, err = newTag(v, models.DefaultTagColor)
		if err != nil {
			return nil, (&common.ValidationError{}).Add("tags", "tag "+v+" must contain letters or digits")
		}
		if t, err = repo.Create(ctx, t); err != nil {
			return nil, err
		}
		add(t.ID)
	}

	return ids, nil
}

