package web

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/portfolio/internal/client/api"
	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/logging"
)

const (
	csrfCookie = "csrf_token"
	csrfField  = "csrf_token"
)

type ctxKey int

const (
	csrfKey ctxKey = iota
	adminNameKey
)

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := middleware.GetReqID(r.Context())
		ctx := logging.ContextWith(r.Context(), "request_id", id)
		ctx = api.WithRequestID(ctx, id)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))
		s.logger.Info(ctx, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
		)
	})
}

// csrf implements the double-submit cookie pattern: every visitor gets a
// random token cookie, and unsafe requests must echo it in a form field.
func (s *Server) csrf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if c, err := r.Cookie(csrfCookie); err == nil && c.Value != "" {
			token = c.Value
		} else {
			t, err := common.MakeRandHexString(32)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			token = t
			http.SetCookie(w, &http.Cookie{
				Name:     csrfCookie,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				Secure:   s.opts.SecureCookies,
				SameSite: http.SameSiteLaxMode,
			})
		}

		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
		default:
			// handlers read r.PostForm and r.MultipartForm parsed here
			if err := parseForm(r); err != nil {
				s.logger.Warn(r.Context(), "form parse failed", "error", err)
			}
			sent := r.Header.Get("X-CSRF-Token")
			if sent == "" {
				sent = r.PostForm.Get(csrfField)
			}
			if subtle.ConstantTimeCompare([]byte(sent), []byte(token)) != 1 {
				http.Error(w, "invalid CSRF token", http.StatusForbidden)
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfKey, token)))
	})
}

func csrfToken(ctx context.Context) string {
	s, _ := ctx.Value(csrfKey).(string)
	return s
}

// requireAdmin renders the login view in place of the page when the admin
// cookies are missing, and otherwise attaches the token to the context.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, name := adminCookies(r)
		if token == "" {
			status := http.StatusOK
			if r.Method != http.MethodGet {
				status = http.StatusUnauthorized
			}
			s.renderLogin(w, r, status, "", "")
			return
		}
		ctx := api.WithToken(r.Context(), token)
		ctx = context.WithValue(ctx, adminNameKey, name)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func adminName(ctx context.Context) string {
	s, _ := ctx.Value(adminNameKey).(string)
	return s
}
