package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/gin-gonic/gin"
)

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func okWith(c *gin.Context, data any) {
	ok(c, http.StatusOK, data)
}

func okCreated(c *gin.Context, data any) {
	ok(c, http.StatusCreated, data)
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// failValidation writes 422 with one single-key object per invalid field.
func failValidation(c *gin.Context, ve *common.ValidationError) {
	errs := make([]map[string]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		errs = append(errs, map[string]string{f.Field: f.Message})
	}
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
		"success": false,
		"message": "validation failed",
		"errors":  errs,
	})
}

// respondError maps service errors onto HTTP statuses. Unknown errors are
// logged and reported as 500 without details.
func (s *Server) respondError(c *gin.Context, err error) {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		failValidation(c, ve)
	case errors.Is(err, common.ErrorNotFound):
		fail(c, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		fail(c, http.StatusConflict, "already exists")
	case errors.Is(err, common.ErrorUnauthorized):
		fail(c, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, common.ErrTokenExpired):
		fail(c, http.StatusUnauthorized, "token expired")
	case errors.Is(err, common.ErrInvalidToken):
		fail(c, http.StatusUnauthorized, "unauthorized")
	default:
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		fail(c, http.StatusInternalServerError, "internal server error")
	}
}

// bindJSON decodes the body into dst and writes 400 on malformed input.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	return true
}
