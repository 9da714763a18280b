package web

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/portfolio/internal/client/api"
	"github.com/dmitrijs2005/portfolio/internal/i18n"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

const maxUploadMemory = 32 << 20

func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxUploadMemory)
	}
	return r.ParseForm()
}

// splitList splits a comma separated input, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func trimmed(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

// projectForm converts the browser form into the API form. On edit the
// hidden tagsPresent and galleryPresent markers make Tags and KeepGallery
// non-nil, so unticking every box clears them. An edit sends every language,
// blank ones included, so a cleared translation is removed. The returned
// closer releases the opened uploads.
func projectForm(r *http.Request, edit bool) (api.ProjectForm, func(), error) {
	f := api.ProjectForm{
		Slug:       trimmed(r, "slug"),
		Stage:      models.Stage(r.FormValue("stage")),
		IsFeatured: r.FormValue("isFeatured") != "",
		TechStack:  splitList(r.FormValue("techStack")),
		Links: models.Links{
			GitHub: trimmed(r, "github"),
			Live:   trimmed(r, "live"),
		},
		Translations: map[string]models.ProjectText{},
	}

	if r.PostForm.Has("tagsPresent") {
		f.Tags = []string{}
	}
	f.Tags = append(f.Tags, r.PostForm["tags"]...)
	if r.PostForm.Has("galleryPresent") {
		f.KeepGallery = []string{}
	}
	f.KeepGallery = append(f.KeepGallery, r.PostForm["keepGallery"]...)

	for _, l := range i18n.Langs {
		t := models.ProjectText{
			Title:         trimmed(r, string(l)+".title"),
			Description:   trimmed(r, string(l)+".description"),
			FullCaseStudy: trimmed(r, string(l)+".fullCaseStudy"),
		}
		if edit || t != (models.ProjectText{}) || l == i18n.Default {
			f.Translations[string(l)] = t
		}
	}

	var opened []multipart.File
	closeAll := func() {
		for _, c := range opened {
			_ = c.Close()
		}
	}
	if r.MultipartForm == nil {
		return f, closeAll, nil
	}

	open := func(fh *multipart.FileHeader) (api.File, error) {
		file, err := fh.Open()
		if err != nil {
			return api.File{}, err
		}
		opened = append(opened, file)
		return api.File{Name: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Body: file}, nil
	}

	if fhs := r.MultipartForm.File["mainImage"]; len(fhs) > 0 && fhs[0].Size > 0 {
		file, err := open(fhs[0])
		if err != nil {
			closeAll()
			return f, func() {}, err
		}
		f.MainImage = &file
	}
	for _, fh := range r.MultipartForm.File["gallery"] {
		if fh.Size == 0 {
			continue
		}
		file, err := open(fh)
		if err != nil {
			closeAll()
			return f, func() {}, err
		}
		f.Gallery = append(f.Gallery, file)
	}
	return f, closeAll, nil
}

// settingsForm reads the settings page form.
func settingsForm(r *http.Request) models.Settings {
	s := models.Settings{
		Email:            trimmed(r, "email"),
		Phones:           splitList(r.FormValue("phones")),
		CVLink:           trimmed(r, "cvLink"),
		IsLookingForWork: r.FormValue("isLookingForWork") != "",
		Socials: models.Socials{
			GitHub:    trimmed(r, "github"),
			Discord:   trimmed(r, "discord"),
			Telegram:  trimmed(r, "telegram"),
			Instagram: trimmed(r, "instagram"),
			LinkedIn:  trimmed(r, "linkedin"),
		},
		SystemNote: models.SystemNote{
			Text:   trimmed(r, "noteText"),
			Status: trimmed(r, "noteStatus"),
		},
	}
	s.Normalize()
	return s
}
