package api

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/portfolio/internal/models"
)

// File is an image attached to a project form.
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// ProjectForm is what the admin create and edit screens submit.
//
// Create encodes repeated bracketed fields (techStack[], tags[],
// links[github], translations[en][title]). Update encodes the tech stack as
// one comma separated value and links/translations as JSON strings, sends
// MainImage only when a new one was chosen, and sends KeepGallery only when
// it is non-nil.
type ProjectForm struct {
	Slug         string
	Stage        models.Stage
	IsFeatured   bool
	TechStack    []string
	Tags         []string
	Links        models.Links
	Translations map[string]models.ProjectText
	MainImage    *File
	Gallery      []File
	KeepGallery  []string
}

func (f ProjectForm) encodeCreate(w *multipart.Writer) error {
	fields := [][2]string{
		{"slug", f.Slug},
		{"stage", string(f.Stage)},
		{"isFeatured", strconv.FormatBool(f.IsFeatured)},
	}
	for _, t := range f.TechStack {
		fields = append(fields, [2]string{"techStack[]", t})
	}
	for _, t := range f.Tags {
		fields = append(fields, [2]string{"tags[]", t})
	}
	fields = append(fields,
		[2]string{"links[github]", f.Links.GitHub},
		[2]string{"links[live]", f.Links.Live},
	)
	for _, lang := range sortedLangs(f.Translations) {
		t := f.Translations[lang]
		fields = append(fields,
			[2]string{fmt.Sprintf("translations[%s][title]", lang), t.Title},
			[2]string{fmt.Sprintf("translations[%s][description]", lang), t.Description},
			[2]string{fmt.Sprintf("translations[%s][fullCaseStudy]", lang), t.FullCaseStudy},
		)
	}

	if err := writeFields(w, fields); err != nil {
		return err
	}
	return f.writeFiles(w)
}

func (f ProjectForm) encodeUpdate(w *multipart.Writer) error {
	links, err := json.Marshal(f.Links)
	if err != nil {
		return err
	}
	translations, err := json.Marshal(f.Translations)
	if err != nil {
		return err
	}

	fields := [][2]string{
		{"slug", f.Slug},
		{"stage", string(f.Stage)},
		{"isFeatured", strconv.FormatBool(f.IsFeatured)},
		{"techStack", strings.Join(f.TechStack, ",")},
		{"links", string(links)},
		{"translations", string(translations)},
	}
	if f.Tags != nil {
		for _, t := range f.Tags {
			fields = append(fields, [2]string{"tags[]", t})
		}
		if len(f.Tags) == 0 {
			fields = append(fields, [2]string{"tags", ""})
		}
	}
	if f.KeepGallery != nil {
		for _, u := range f.KeepGallery {
			fields = append(fields, [2]string{"existingGallery[]", u})
		}
		if len(f.KeepGallery) == 0 {
			fields = append(fields, [2]string{"existingGallery", ""})
		}
	}

	if err := writeFields(w, fields); err != nil {
		return err
	}
	return f.writeFiles(w)
}

func (f ProjectForm) writeFiles(w *multipart.Writer) error {
	if f.MainImage != nil {
		if err := writeFile(w, "mainImage", *f.MainImage); err != nil {
			return err
		}
	}
	for _, g := range f.Gallery {
		if err := writeFile(w, "gallery", g); err != nil {
			return err
		}
	}
	return nil
}

func writeFields(w *multipart.Writer, fields [][2]string) error {
	for _, kv := range fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeFile(w *multipart.Writer, field string, f File) error {
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(f.Name)))
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f.Body)
	return err
}

func sortedLangs(m map[string]models.ProjectText) []string {
	langs := make([]string, 0, len(m))
	for l := range m {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}
