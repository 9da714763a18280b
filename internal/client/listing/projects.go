// Package listing implements the bookkeeping of list screens: ordering,
// text and attribute filters, multi-select and reconciliation of the local
// list after bulk actions.
package listing

import (
	"sort"
	"strings"

	"github.com/dmitrijs2005/portfolio/internal/models"
)

// AllChip is the featured-projects chip that disables tech filtering.
const AllChip = "ALL"

// SortProjects orders projects newest first. Equal timestamps keep their
// relative order.
func SortProjects(ps []models.Project) {
	sort.SliceStable(ps, func(i, j int) bool {
		return ps[i].CreatedAt.After(ps[j].CreatedAt)
	})
}

// ProjectFilter selects projects. Empty fields do not restrict.
//
// Search matches case-insensitively against the title in Lang (English
// fallback) or, when TitleLangs is set, against the titles in exactly those
// languages. Unless TitleOnly is set, tag and tech names are searched too;
// WithDescription adds the description. Stages, Tech and Categories match
// when the project has any of the selected values.
type ProjectFilter struct {
	Search          string
	Lang            string
	TitleLangs      []string
	TitleOnly       bool
	WithDescription bool
	Stages          []models.Stage
	Tech            []string
	Categories      []string
}

func (f ProjectFilter) Match(p *models.Project) bool {
	if len(f.Stages) > 0 && !containsStage(f.Stages, p.Stage) {
		return false
	}
	if len(f.Tech) > 0 && !anyIn(f.Tech, p.TechStack) {
		return false
	}
	if len(f.Categories) > 0 && !anyIn(f.Categories, p.TagNames()) {
		return false
	}
	return f.matchSearch(p)
}

func (f ProjectFilter) matchSearch(p *models.Project) bool {
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}

	var hay []string
	if len(f.TitleLangs) > 0 {
		for _, l := range f.TitleLangs {
			hay = append(hay, p.Translations[l].Title)
		}
	} else {
		hay = append(hay, p.Title(f.Lang))
	}
	if f.WithDescription {
		hay = append(hay, p.Text(f.Lang).Description)
	}
	if !f.TitleOnly {
		hay = append(hay, p.TagNames()...)
		hay = append(hay, p.TechStack...)
	}

	for _, h := range hay {
		if strings.Contains(strings.ToLower(h), q) {
			return true
		}
	}
	return false
}

// FilterProjects returns the matching projects in their original order.
func FilterProjects(ps []models.Project, f ProjectFilter) []models.Project {
	out := make([]models.Project, 0, len(ps))
	for i := range ps {
		if f.Match(&ps[i]) {
			out = append(out, ps[i])
		}
	}
	return out
}

// AvailableTech returns the sorted unique tech names across projects.
func AvailableTech(ps []models.Project) []string {
	var all []string
	for _, p := range ps {
		all = append(all, p.TechStack...)
	}
	return uniqueSorted(all)
}

// AvailableCategories returns the sorted unique tag names across projects.
func AvailableCategories(ps []models.Project) []string {
	var all []string
	for _, p := range ps {
		all = append(all, p.TagNames()...)
	}
	return uniqueSorted(all)
}

// FeaturedChips returns AllChip followed by the first n distinct upper-cased
// tech names in project order.
func FeaturedChips(ps []models.Project, n int) []string {
	chips := []string{AllChip}
	seen := map[string]struct{}{}
	for _, p := range ps {
		for _, t := range p.TechStack {
			u := strings.ToUpper(t)
			if _, ok := seen[u]; ok {
				continue
			}
			if len(seen) == n {
				return chips
			}
			seen[u] = struct{}{}
			chips = append(chips, u)
		}
	}
	return chips
}

// FilterByChip keeps projects using the chip's tech (case-insensitively).
// AllChip and "" keep everything.
func FilterByChip(ps []models.Project, chip string) []models.Project {
	chip = strings.ToUpper(strings.TrimSpace(chip))
	if chip == "" || chip == AllChip {
		return ps
	}
	out := make([]models.Project, 0, len(ps))
	for _, p := range ps {
		for _, t := range p.TechStack {
			if strings.ToUpper(t) == chip {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// RemoveProjects drops the projects with the given ids.
func RemoveProjects(ps []models.Project, ids []string) []models.Project {
	drop := set(ids)
	out := make([]models.Project, 0, len(ps))
	for _, p := range ps {
		if _, ok := drop[p.ID]; !ok {
			out = append(out, p)
		}
	}
	return out
}

func containsStage(stages []models.Stage, s models.Stage) bool {
	for _, v := range stages {
		if v == s {
			return true
		}
	}
	return false
}

func anyIn(want, have []string) bool {
	hs := set(have)
	for _, w := range want {
		if _, ok := hs[w]; ok {
			return true
		}
	}
	return false
}

func set(vs []string) map[string]struct{} {
	m := make(map[string]struct{}, len(vs))
	for _, v := range vs {
		m[v] = struct{}{}
	}
	return m
}

func uniqueSorted(vs []string) []string {
	m := set(vs)
	out := make([]string, 0, len(m))
	for v := range m {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
