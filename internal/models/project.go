package models

import (
	"strings"
	"time"
)

// Stage is the maturity level of a project.
type Stage string

const (
	Stage1 Stage = "STAGE_1"
	Stage2 Stage = "STAGE_2"
	Stage3 Stage = "STAGE_3"
)

// Stages lists the valid stages in ascending order.
var Stages = []Stage{Stage1, Stage2, Stage3}

func (s Stage) Valid() bool {
	return s.Ordinal() > 0
}

// Ordinal returns 1..3 for valid stages and 0 otherwise.
func (s Stage) Ordinal() int {
	for i, v := range Stages {
		if v == s {
			return i + 1
		}
	}
	return 0
}

// Label renders the stage for display, e.g. "STAGE 1".
func (s Stage) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// DefaultLang is the language every project must at least be described in.
const DefaultLang = "en"

// ProjectText is the localized part of a project.
type ProjectText struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	FullCaseStudy string `json:"fullCaseStudy"`
}

// Links are the optional external links of a project.
type Links struct {
	GitHub string `json:"github,omitempty" validate:"omitempty,url,max=500"`
	Live   string `json:"live,omitempty" validate:"omitempty,url,max=500"`
}

type Project struct {
	ID           string                 `json:"id"`
	Slug         string                 `json:"slug"`
	Stage        Stage                  `json:"stage"`
	IsFeatured   bool                   `json:"isFeatured"`
	TechStack    []string               `json:"techStack"`
	Tags         []Tag                  `json:"tags"`
	Links        Links                  `json:"links"`
	MainImage    string                 `json:"mainImage,omitempty"`
	Gallery      []string               `json:"gallery"`
	Translations map[string]ProjectText `json:"translations"`
	CreatedAt    time.Time              `json:"createdAt"`
	UpdatedAt    time.Time              `json:"updatedAt"`
}

// Text returns the project's text in lang. Each empty field falls back to
// the English translation.
func (p *Project) Text(lang string) ProjectText {
	en := p.Translations[DefaultLang]
	t, ok := p.Translations[lang]
	if !ok {
		return en
	}
	if t.Title == "" {
		t.Title = en.Title
	}
	if t.Description == "" {
		t.Description = en.Description
	}
	if t.FullCaseStudy == "" {
		t.FullCaseStudy = en.FullCaseStudy
	}
	return t
}

// Title is shorthand for Text(lang).Title.
func (p *Project) Title(lang string) string {
	return p.Text(lang).Title
}

// TagNames returns the names of the project's tags in order.
func (p *Project) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Name)
	}
	return names
}

// DisplayTags returns tag names, or the tech stack when the project has no
// tags.
func (p *Project) DisplayTags() []string {
	if len(p.Tags) > 0 {
		return p.TagNames()
	}
	return p.TechStack
}
