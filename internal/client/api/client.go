// Package api is a typed HTTP client for the portfolio REST backend. It is
// shared by the web front end and the admin console.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/netx"
)

type ctxKey struct{}

type requestIDKey struct{}

// WithToken returns a context whose requests carry the admin bearer token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxKey{}, token)
}

// TokenFrom returns the token set by WithToken, or "".
func TokenFrom(ctx context.Context) string {
	s, _ := ctx.Value(ctxKey{}).(string)
	return s
}

// WithRequestID returns a context whose requests forward id in the
// X-Request-ID header.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  logging.Logger
}

// New builds a client for the API rooted at baseURL, e.g.
// "http://127.0.0.1:5000". A zero timeout disables the per-request limit.
func New(baseURL string, timeout time.Duration, logger logging.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With("module", "api_client"),
	}
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok := TokenFrom(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	if id, _ := ctx.Value(requestIDKey{}).(string); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	return req, nil
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); errors.Is(ctxErr, context.Canceled) {
			return nil, ctxErr
		}
		if netx.IsNetworkError(err) {
			c.logger.Warn(req.Context(), "backend unreachable", "method", req.Method, "url", req.URL.Path, "error", err)
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, err
	}
	c.logger.Debug(req.Context(), "api call", "method", req.Method, "url", req.URL.Path,
		"status", resp.StatusCode, "duration", time.Since(start).String())
	return resp, nil
}

// call performs a request with an optional JSON body and decodes the reply.
func call[T any](ctx context.Context, c *Client, method, path string, query url.Values, in any) (T, error) {
	var zero T

	var body io.Reader
	contentType := ""
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return zero, err
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, method, path, query, body, contentType)
	if err != nil {
		return zero, err
	}
	return do[T](c, req)
}

func do[T any](c *Client, req *http.Request) (T, error) {
	resp, err := c.send(req)
	if err != nil {
		var zero T
		return zero, err
	}
	defer resp.Body.Close()
	return decode[T](resp)
}

func pathEscape(s string) string {
	return url.PathEscape(s)
}
