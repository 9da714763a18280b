package web

import (
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/i18n"
)

const (
	tokenCookie = "admin_token"
	nameCookie  = "admin_name"
	langCookie  = "pref-lang"

	adminCookieTTL = 24 * time.Hour
	langCookieTTL  = 365 * 24 * time.Hour
)

func (s *Server) setCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    url.QueryEscape(value),
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	v, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return v
}

func adminCookies(r *http.Request) (token, name string) {
	return cookieValue(r, tokenCookie), cookieValue(r, nameCookie)
}

func (s *Server) saveAdmin(w http.ResponseWriter, token, name string) {
	s.setCookie(w, tokenCookie, token, adminCookieTTL)
	s.setCookie(w, nameCookie, name, adminCookieTTL)
}

func (s *Server) clearAdmin(w http.ResponseWriter) {
	s.clearCookie(w, tokenCookie)
	s.clearCookie(w, nameCookie)
}

// requestLang reads the preferred language cookie, defaulting to English.
func requestLang(r *http.Request) i18n.Lang {
	l, _ := i18n.Parse(cookieValue(r, langCookie))
	return l
}
