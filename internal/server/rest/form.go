package rest

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/models"
	"github.com/dmitrijs2005/portfolio/internal/server/services"
	"github.com/gin-gonic/gin"
)

var translationKeyRe = regexp.MustCompile(`^translations\[([A-Za-z-]+)\]\[(title|description|fullCaseStudy)\]$`)

var errBodyTooLarge = errors.New("request body too large")

// projectForm is a parsed project create/update request. Both encodings
// used by admin clients are understood: bracketed repeated fields
// (techStack[], links[github], translations[en][title]) and flat ones
// (comma separated techStack, JSON encoded links and translations).
type projectForm struct {
	values url.Values
	files  map[string][]*multipart.FileHeader
}

func readProjectForm(c *gin.Context, maxMemory int64) (*projectForm, error) {
	err := c.Request.ParseMultipartForm(maxMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = c.Request.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errBodyTooLarge
		}
		return nil, err
	}

	f := &projectForm{values: c.Request.PostForm, files: map[string][]*multipart.FileHeader{}}
	if c.Request.MultipartForm != nil {
		f.files = c.Request.MultipartForm.File
	}
	return f, nil
}

func (f *projectForm) has(key string) bool {
	_, ok := f.values[key]
	return ok
}

// list returns the values of "key[]", or of "key" split on commas.
func (f *projectForm) list(key string) ([]string, bool) {
	if vs, ok := f.values[key+"[]"]; ok {
		return vs, true
	}
	vs, ok := f.values[key]
	if !ok {
		return nil, false
	}
	var out []string
	for _, v := range vs {
		out = append(out, strings.Split(v, ",")...)
	}
	return out, true
}

func (f *projectForm) links(ve *common.ValidationError) (models.Links, bool) {
	var l models.Links
	if f.has("links") {
		if raw := f.values.Get("links"); strings.TrimSpace(raw) != "" {
			if err := json.Unmarshal([]byte(raw), &l); err != nil {
				ve.Add("links", "must be a JSON object")
			}
		}
		return l, true
	}
	gh, ghOK := f.values["links[github]"]
	live, liveOK := f.values["links[live]"]
	if !ghOK && !liveOK {
		return l, false
	}
	if len(gh) > 0 {
		l.GitHub = gh[0]
	}
	if len(live) > 0 {
		l.Live = live[0]
	}
	return l, true
}

func (f *projectForm) translations(ve *common.ValidationError) map[string]models.ProjectText {
	out := map[string]models.ProjectText{}
	if raw := f.values.Get("translations"); strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			ve.Add("translations", "must be a JSON object")
		}
	}
	for key, vs := range f.values {
		m := translationKeyRe.FindStringSubmatch(key)
		if m == nil || len(vs) == 0 {
			continue
		}
		lang := strings.ToLower(m[1])
		t := out[lang]
		switch m[2] {
		case "title":
			t.Title = vs[0]
		case "description":
			t.Description = vs[0]
		case "fullCaseStudy":
			t.FullCaseStudy = vs[0]
		}
		out[lang] = t
	}
	return out
}

func (f *projectForm) featured(ve *common.ValidationError) (bool, bool) {
	if !f.has("isFeatured") {
		return false, false
	}
	raw := strings.TrimSpace(f.values.Get("isFeatured"))
	if raw == "" || raw == "on" {
		return raw == "on", true
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		ve.Add("isFeatured", "must be true or false")
	}
	return b, true
}

func (f *projectForm) uploads(key string, ve *common.ValidationError) []services.Upload {
	var out []services.Upload
	for _, fh := range f.files[key] {
		ct := fh.Header.Get("Content-Type")
		if !strings.HasPrefix(ct, "image/") {
			ve.Add(key, "must be an image")
			continue
		}
		out = append(out, services.Upload{
			Name:        fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
			Open:        openFileHeader(fh),
		})
	}
	return out
}

func openFileHeader(fh *multipart.FileHeader) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return fh.Open()
	}
}

func (f *projectForm) toInput() (services.ProjectInput, error) {
	ve := &common.ValidationError{}
	in := services.ProjectInput{
		Slug:         f.values.Get("slug"),
		Stage:        models.Stage(strings.TrimSpace(f.values.Get("stage"))),
		Translations: f.translations(ve),
	}
	// On create an absent field simply takes its zero value.
	in.IsFeatured, _ = f.featured(ve)
	in.TechStack, _ = f.list("techStack")
	in.Tags, _ = f.list("tags")
	in.Links, _ = f.links(ve)

	if mains := f.uploads("mainImage", ve); len(mains) > 0 {
		in.MainImage = &mains[0]
	}
	in.Gallery = f.uploads("gallery", ve)
	return in, ve.OrNil()
}

// toPatch only sets fields present in the form. The gallery keep-list comes
// from "existingGallery[]" (or "existingGallery").
func (f *projectForm) toPatch() (services.ProjectPatch, error) {
	ve := &common.ValidationError{}
	var p services.ProjectPatch

	if f.has("slug") {
		v := f.values.Get("slug")
		p.Slug = &v
	}
	if f.has("stage") {
		v := models.Stage(strings.TrimSpace(f.values.Get("stage")))
		p.Stage = &v
	}
	if b, ok := f.featured(ve); ok {
		p.IsFeatured = &b
	}
	if v, ok := f.list("techStack"); ok {
		p.TechStack = &v
	}
	if v, ok := f.list("tags"); ok {
		p.Tags = &v
	}
	if l, ok := f.links(ve); ok {
		p.Links = &l
	}
	if t := f.translations(ve); len(t) > 0 {
		p.Translations = t
	}
	if v, ok := f.list("existingGallery"); ok {
		keep := make([]string, 0, len(v))
		for _, u := range v {
			if u = strings.TrimSpace(u); u != "" {
				keep = append(keep, u)
			}
		}
		p.Gallery = &keep
	}

	if mains := f.uploads("mainImage", ve); len(mains) > 0 {
		p.MainImage = &mains[0]
	}
	p.NewGallery = f.uploads("gallery", ve)
	return p, ve.OrNil()
}
