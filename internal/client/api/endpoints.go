package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/portfolio/internal/models"
)

type health struct {
	Status string `json:"status"`
}

// Health reports whether the backend and its database answer.
func (c *Client) Health(ctx context.Context) error {
	_, err := call[health](ctx, c, http.MethodGet, "/api/health", nil, nil)
	return err
}

// ---- auth ----

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, in LoginRequest) (*models.Session, error) {
	s, err := call[models.Session](ctx, c, http.MethodPost, "/api/auth/login", nil, in)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Register(ctx context.Context, in RegisterRequest) (*models.Admin, error) {
	return callPtr[models.Admin](ctx, c, http.MethodPost, "/api/auth/register", nil, in)
}

// ---- projects ----

// ProjectQuery narrows ListProjects. Zero values mean no restriction.
type ProjectQuery struct {
	Featured bool
	Limit    int
}

func (c *Client) ListProjects(ctx context.Context, q ProjectQuery) ([]models.Project, error) {
	v := url.Values{}
	if q.Featured {
		v.Set("featured", "true")
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return listOf[models.Project](ctx, c, "/api/projects", v)
}

func (c *Client) GetProject(ctx context.Context, id string) (*models.Project, error) {
	return callPtr[models.Project](ctx, c, http.MethodGet, "/api/projects/"+pathEscape(id), nil, nil)
}

func (c *Client) GetProjectBySlug(ctx context.Context, slug string) (*models.Project, error) {
	return callPtr[models.Project](ctx, c, http.MethodGet, "/api/projects/slug/"+pathEscape(slug), nil, nil)
}

// CreateProject sends the form with bracketed repeated fields.
func (c *Client) CreateProject(ctx context.Context, f ProjectForm) (*models.Project, error) {
	return c.sendProject(ctx, http.MethodPost, "/api/projects", f.encodeCreate)
}

// UpdateProject sends the form with flat fields; see ProjectForm.
func (c *Client) UpdateProject(ctx context.Context, id string, f ProjectForm) (*models.Project, error) {
	return c.sendProject(ctx, http.MethodPatch, "/api/projects/"+pathEscape(id), f.encodeUpdate)
}

func (c *Client) sendProject(ctx context.Context, method, path string, encode func(*multipart.Writer) error) (*models.Project, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := encode(mw); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, method, path, nil, &buf, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}
	p, err := do[models.Project](c, req)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	_, err := call[struct{}](ctx, c, http.MethodDelete, "/api/projects/"+pathEscape(id), nil, nil)
	return err
}

// ---- messages ----

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
}

func (c *Client) SubmitContact(ctx context.Context, in ContactRequest) error {
	_, err := call[struct{}](ctx, c, http.MethodPost, "/api/contact", nil, in)
	return err
}

func (c *Client) ListMessages(ctx context.Context) ([]models.Message, error) {
	return listOf[models.Message](ctx, c, "/api/messages", nil)
}

func (c *Client) SetMessageStatus(ctx context.Context, id string, status models.MessageStatus) (*models.Message, error) {
	body := map[string]models.MessageStatus{"status": status}
	return callPtr[models.Message](ctx, c, http.MethodPatch, "/api/messages/"+pathEscape(id), nil, body)
}

func (c *Client) DeleteMessage(ctx context.Context, id string) error {
	_, err := call[struct{}](ctx, c, http.MethodDelete, "/api/messages/"+pathEscape(id), nil, nil)
	return err
}

// ---- tags ----

func (c *Client) ListTags(ctx context.Context) ([]models.Tag, error) {
	return listOf[models.Tag](ctx, c, "/api/tags", nil)
}

func (c *Client) CreateTag(ctx context.Context, name, color string) (*models.Tag, error) {
	body := map[string]string{"name": name, "color": color}
	return callPtr[models.Tag](ctx, c, http.MethodPost, "/api/tags", nil, body)
}

func (c *Client) DeleteTag(ctx context.Context, id string) error {
	_, err := call[struct{}](ctx, c, http.MethodDelete, "/api/tags/"+pathEscape(id), nil, nil)
	return err
}

// ---- settings ----

func (c *Client) GetSettings(ctx context.Context) (*models.Settings, error) {
	return callPtr[models.Settings](ctx, c, http.MethodGet, "/api/settings", nil, nil)
}

func (c *Client) SaveSettings(ctx context.Context, s models.Settings) (*models.Settings, error) {
	return callPtr[models.Settings](ctx, c, http.MethodPost, "/api/settings", nil, s)
}

func callPtr[T any](ctx context.Context, c *Client, method, path string, query url.Values, in any) (*T, error) {
	v, err := call[T](ctx, c, method, path, query, in)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// listOf never returns a nil slice on success.
func listOf[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	list, err := call[[]T](ctx, c, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []T{}
	}
	return list, nil
}
