package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/dbx"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/models"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/projects"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/portfolio/internal/server/storage"
	"github.com/dmitrijs2005/portfolio/internal/server/validation"
	"github.com/google/uuid"
)

// Upload is a file received with a project form.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// ProjectInput holds a complete project as sent by the create form.
// Tags are existing tag ids or names of tags to create.
type ProjectInput struct {
	Slug         string
	Stage        models.Stage
	IsFeatured   bool
	TechStack    []string
	Tags         []string
	Links        models.Links
	Translations map[string]models.ProjectText
	MainImage    *Upload
	Gallery      []Upload
}

// ProjectPatch holds a partial update. Nil fields are left unchanged.
// Translations are merged per language; a blank text removes that language.
// Gallery, when set, is the list of existing gallery URLs to keep; NewGallery
// files are appended after it.
type ProjectPatch struct {
	Slug         *string
	Stage        *models.Stage
	IsFeatured   *bool
	TechStack    *[]string
	Tags         *[]string
	Links        *models.Links
	Translations map[string]models.ProjectText
	MainImage    *Upload
	Gallery      *[]string
	NewGallery   []Upload
}

type projectRules struct {
	Slug      string       `json:"slug" validate:"required,max=100,slug"`
	Stage     models.Stage `json:"stage" validate:"stage"`
	TechStack []string     `json:"techStack" validate:"max=30,dive,required,max=50"`
	Links     models.Links `json:"links"`
	Title     string       `json:"translations.en.title" validate:"required,max=200"`
	Gallery   []string     `json:"gallery" validate:"max=30"`
}

func validateProject(p *models.Project) error {
	return validation.Struct(projectRules{
		Slug:      p.Slug,
		Stage:     p.Stage,
		TechStack: p.TechStack,
		Links:     p.Links,
		Title:     p.Translations[models.DefaultLang].Title,
		Gallery:   p.Gallery,
	})
}

type ProjectService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	media       storage.MediaStore
	logger      logging.Logger
	now         func() time.Time
}

func NewProjectService(db *sql.DB, m repomanager.RepositoryManager, media storage.MediaStore, logger logging.Logger) *ProjectService {
	return &ProjectService{
		db:          db,
		repomanager: m,
		media:       media,
		logger:      logger.With("service", "projects"),
		now:         time.Now,
	}
}

// List returns projects newest first.
func (s *ProjectService) List(ctx context.Context, featuredOnly bool, limit int) ([]models.Project, error) {
	if limit < 0 {
		limit = 0
	}
	return s.repomanager.Projects(s.db).List(ctx, projects.ListOptions{FeaturedOnly: featuredOnly, Limit: limit})
}

func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	return s.repomanager.Projects(s.db).Get(ctx, id)
}

func (s *ProjectService) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	return s.repomanager.Projects(s.db).GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
}

// Create validates the input, stores uploaded media and saves the project
// with its tags in one transaction. Media stored for a failed save is
// removed again.
func (s *ProjectService) Create(ctx context.Context, in ProjectInput) (*models.Project, error) {
	p := &models.Project{
		ID:           uuid.NewString(),
		Slug:         strings.ToLower(strings.TrimSpace(in.Slug)),
		Stage:        in.Stage,
		IsFeatured:   in.IsFeatured,
		TechStack:    cleanList(in.TechStack),
		Links:        trimLinks(in.Links),
		Gallery:      []string{},
		Translations: cleanTranslations(in.Translations),
	}
	if p.Stage == "" {
		p.Stage = models.Stage1
	}
	if err := validateProject(p); err != nil {
		return nil, err
	}

	var stored []string
	if in.MainImage != nil {
		url, err := s.store(ctx, *in.MainImage)
		if err != nil {
			return nil, err
		}
		stored = append(stored, url)
		p.MainImage = url
	}
	for _, up := range in.Gallery {
		url, err := s.store(ctx, up)
		if err != nil {
			s.discard(ctx, stored)
			return nil, err
		}
		stored = append(stored, url)
		p.Gallery = append(p.Gallery, url)
	}

	var saved *models.Project
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		tagIDs, err := resolveTags(ctx, s.repomanager.Tags(tx), in.Tags)
		if err != nil {
			return err
		}
		repo := s.repomanager.Projects(tx)
		if _, err := repo.Create(ctx, p); err != nil {
			return err
		}
		if err := repo.SetTags(ctx, p.ID, tagIDs); err != nil {
			return err
		}
		saved, err = repo.Get(ctx, p.ID)
		return err
	})
	if err != nil {
		s.discard(ctx, stored)
		return nil, err
	}

	s.logger.Info(ctx, "project created", "project", saved.ID, "slug", saved.Slug)
	return saved, nil
}

// Update applies patch to the project with the given id. A replaced main
// image and dropped gallery images are deleted from the media store after
// the change is committed.
func (s *ProjectService) Update(ctx context.Context, id string, patch ProjectPatch) (*models.Project, error) {
	cur, err := s.repomanager.Projects(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}

	p := *cur
	applyPatch(&p, patch)
	if err := validateProject(&p); err != nil {
		return nil, err
	}

	var stored []string
	if patch.MainImage != nil {
		url, err := s.store(ctx, *patch.MainImage)
		if err != nil {
			return nil, err
		}
		stored = append(stored, url)
		p.MainImage = url
	}
	for _, up := range patch.NewGallery {
		url, err := s.store(ctx, up)
		if err != nil {
			s.discard(ctx, stored)
			return nil, err
		}
		stored = append(stored, url)
		p.Gallery = append(p.Gallery, url)
	}

	var saved *models.Project
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Projects(tx)
		if _, err := repo.Update(ctx, &p); err != nil {
			return err
		}
		if patch.Tags != nil {
			tagIDs, err := resolveTags(ctx, s.repomanager.Tags(tx), *patch.Tags)
			if err != nil {
				return err
			}
			if err := repo.SetTags(ctx, p.ID, tagIDs); err != nil {
				return err
			}
		}
		saved, err = repo.Get(ctx, p.ID)
		return err
	})
	if err != nil {
		s.discard(ctx, stored)
		return nil, err
	}

	s.discard(ctx, orphanedMedia(cur, saved))
	s.logger.Info(ctx, "project updated", "project", saved.ID)
	return saved, nil
}

// Delete removes the project and, best effort, its media.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	repo := s.repomanager.Projects(s.db)
	p, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := repo.Delete(ctx, id); err != nil {
		return err
	}

	media := append([]string{}, p.Gallery...)
	if p.MainImage != "" {
		media = append(media, p.MainImage)
	}
	s.discard(ctx, media)

	s.logger.Info(ctx, "project deleted", "project", id)
	return nil
}

func (s *ProjectService) store(ctx context.Context, up Upload) (string, error) {
	if s.media == nil {
		return "", fmt.Errorf("media store is not configured")
	}
	r, err := up.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %q: %w", up.Name, err)
	}
	defer r.Close()

	url, err := s.media.Put(ctx, storage.NewKey(up.Name, s.now()), r, up.Size, up.ContentType)
	if err != nil {
		return "", fmt.Errorf("store upload %q: %w", up.Name, err)
	}
	return url, nil
}

func (s *ProjectService) discard(ctx context.Context, urls []string) {
	if s.media == nil {
		return
	}
	for _, u := range urls {
		if err := s.media.Delete(ctx, u); err != nil {
			s.logger.Warn(ctx, "media delete failed", "url", u, "error", err)
		}
	}
}

func applyPatch(p *models.Project, patch ProjectPatch) {
	if patch.Slug != nil {
		p.Slug = strings.ToLower(strings.TrimSpace(*patch.Slug))
	}
	if patch.Stage != nil {
		p.Stage = *patch.Stage
	}
	if patch.IsFeatured != nil {
		p.IsFeatured = *patch.IsFeatured
	}
	if patch.TechStack != nil {
		p.TechStack = cleanList(*patch.TechStack)
	}
	if patch.Links != nil {
		p.Links = trimLinks(*patch.Links)
	}
	if len(patch.Translations) > 0 {
		merged := make(map[string]models.ProjectText, len(p.Translations)+len(patch.Translations))
		for lang, t := range p.Translations {
			merged[lang] = t
		}
		for lang, t := range cleanTranslations(patch.Translations) {
			if t == (models.ProjectText{}) {
				delete(merged, lang)
				continue
			}
			merged[lang] = t
		}
		p.Translations = merged
	}
	if patch.Gallery != nil {
		keep := make(map[string]struct{}, len(*patch.Gallery))
		for _, u := range *patch.Gallery {
			keep[u] = struct{}{}
		}
		gallery := make([]string, 0, len(p.Gallery))
		for _, u := range p.Gallery {
			if _, ok := keep[u]; ok {
				gallery = append(gallery, u)
			}
		}
		p.Gallery = gallery
	} else {
		p.Gallery = append([]string{}, p.Gallery...)
	}
}

// orphanedMedia lists media of before that after no longer references.
func orphanedMedia(before, after *models.Project) []string {
	live := make(map[string]struct{}, len(after.Gallery)+1)
	live[after.MainImage] = struct{}{}
	for _, u := range after.Gallery {
		live[u] = struct{}{}
	}

	var out []string
	check := func(u string) {
		if u == "" {
			return
		}
		if _, ok := live[u]; !ok {
			out = append(out, u)
		}
	}
	check(before.MainImage)
	for _, u := range before.Gallery {
		check(u)
	}
	return out
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func trimLinks(l models.Links) models.Links {
	return models.Links{GitHub: strings.TrimSpace(l.GitHub), Live: strings.TrimSpace(l.Live)}
}

func cleanTranslations(in map[string]models.ProjectText) map[string]models.ProjectText {
	out := make(map[string]models.ProjectText, len(in))
	for lang, t := range in {
		lang = strings.ToLower(strings.TrimSpace(lang))
		if lang == "" {
			continue
		}
		t.Title = strings.TrimSpace(t.Title)
		t.Description = strings.TrimSpace(t.Description)
		t.FullCaseStudy = strings.TrimSpace(t.FullCaseStudy)
		out[lang] = t
	}
	return out
}
