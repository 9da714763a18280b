package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/i18n"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

//go:embed templates
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// pages maps a page name ("home", "admin/projects") to its template, each
// parsed together with the shared layout.
type pages struct {
	set map[string]*template.Template
}

// view is the data every page template receives.
type view struct {
	Lang   i18n.Lang
	Langs  []i18n.Lang
	CSRF   string
	Admin  string
	Path   string
	Notice string
	Error  string
	Year   int
	Data   any
}

func funcs(bundle *i18n.Bundle) template.FuncMap {
	return template.FuncMap{
		"t": func(lang i18n.Lang, key string) string {
			return bundle.T(lang, key)
		},
		"tf": func(lang i18n.Lang, key string, args ...any) string {
			return fmt.Sprintf(bundle.T(lang, key), args...)
		},
		"text": func(p models.Project, lang i18n.Lang) models.ProjectText {
			return p.Text(string(lang))
		},
		"tags": func(p models.Project) []string {
			return p.DisplayTags()
		},
		"tagNames": func(p models.Project) []string {
			return p.TagNames()
		},
		"has": func(list []string, s string) bool {
			for _, v := range list {
				if v == s {
					return true
				}
			}
			return false
		},
		"join":  strings.Join,
		"upper": strings.ToUpper,
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02 15:04")
		},
		"paragraphs": func(s string) []string {
			var out []string
			for _, p := range strings.Split(s, "\n") {
				if p = strings.TrimSpace(p); p != "" {
					out = append(out, p)
				}
			}
			return out
		},
	}
}

func loadPages(bundle *i18n.Bundle) (*pages, error) {
	layout, err := template.New("layout.html").Funcs(funcs(bundle)).ParseFS(templateFS, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	p := &pages{set: map[string]*template.Template{}}
	err = fs.WalkDir(templateFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || path == layoutFile {
			return err
		}
		t, err := layout.Clone()
		if err != nil {
			return err
		}
		if t, err = t.ParseFS(templateFS, path); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		name := strings.TrimSuffix(strings.TrimPrefix(path, "templates/"), ".html")
		p.set[name] = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Server) newView(r *http.Request, data any) view {
	q := r.URL.Query()
	return view{
		Lang:   requestLang(r),
		Langs:  i18n.Langs,
		CSRF:   csrfToken(r.Context()),
		Admin:  adminName(r.Context()),
		Path:   r.URL.Path,
		Notice: q.Get("notice"),
		Error:  q.Get("error"),
		Year:   time.Now().Year(),
		Data:   data,
	}
}

// render executes the page into a buffer first so a template error never
// leaves a half-written response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, v view) {
	t, ok := s.pages.set[name]
	if !ok {
		s.logger.Error(r.Context(), "unknown template", "name", name)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", v); err != nil {
		s.logger.Error(r.Context(), "render failed", "name", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// redirect sends a 303 to path with an optional outcome notice.
func redirect(w http.ResponseWriter, r *http.Request, path, key, msg string) {
	if msg != "" {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		path += sep + key + "=" + url.QueryEscape(msg)
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}
