package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/server/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const claimsKey = "adminClaims"

const requestIDHeader = "X-Request-ID"

// requestLogger tags the request context with a request id, taken from the
// X-Request-ID header or generated, and logs the outcome.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(logging.ContextWith(c.Request.Context(), "request_id", id))

		c.Next()
		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"client", c.ClientIP(),
		)
	}
}

// requireAdmin rejects requests without a valid "Authorization: Bearer"
// token and stores the token claims in the gin context.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			fail(c, http.StatusUnauthorized, "unauthorized")
			return
		}

		claims, err := s.svc.Auth.Authenticate(strings.TrimSpace(token))
		if err != nil {
			s.respondError(c, err)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// limitBody caps the request body at MaxUploadMB.
func (s *Server) limitBody() gin.HandlerFunc {
	limit := int64(s.opts.MaxUploadMB) << 20
	return func(c *gin.Context) {
		if limit > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Allow(c.ClientIP()) {
			fail(c, http.StatusTooManyRequests, "too many requests, try again later")
			return
		}
		c.Next()
	}
}
