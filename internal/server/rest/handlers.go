package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/portfolio/internal/models"
	"github.com/dmitrijs2005/portfolio/internal/server/services"
	"github.com/gin-gonic/gin"
)

// ---- auth ----

func (s *Server) handleLogin(c *gin.Context) {
	var req services.LoginInput
	if !bindJSON(c, &req) {
		return
	}

	sess, err := s.svc.Auth.Login(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": sess.Token, "name": sess.Name})
}

func (s *Server) handleRegister(c *gin.Context) {
	var req services.RegisterInput
	if !bindJSON(c, &req) {
		return
	}

	admin, err := s.svc.Auth.Register(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if claims := claimsFrom(c); claims != nil {
		s.logger.Info(c.Request.Context(), "admin account added", "by", claims.AdminID, "admin", admin.ID)
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "name": admin.Name, "data": admin})
}

// ---- projects ----

func (s *Server) handleListProjects(c *gin.Context) {
	featured := c.Query("featured") == "true"
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			fail(c, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	list, err := s.svc.Projects.List(c.Request.Context(), featured, limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	ok(c, http.StatusOK, list)
}

func (s *Server) handleGetProject(c *gin.Context) {
	p, err := s.svc.Projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

func (s *Server) handleGetProjectBySlug(c *gin.Context) {
	p, err := s.svc.Projects.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

func (s *Server) handleCreateProject(c *gin.Context) {
	form, ok := s.projectForm(c)
	if !ok {
		return
	}
	in, err := form.toInput()
	if err != nil {
		s.respondError(c, err)
		return
	}

	p, err := s.svc.Projects.Create(c.Request.Context(), in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	okCreated(c, p)
}

func (s *Server) handleUpdateProject(c *gin.Context) {
	form, ok := s.projectForm(c)
	if !ok {
		return
	}
	patch, err := form.toPatch()
	if err != nil {
		s.respondError(c, err)
		return
	}

	p, err := s.svc.Projects.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		s.respondError(c, err)
		return
	}
	okWith(c, p)
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	if err := s.svc.Projects.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	okWith(c, gin.H{"id": c.Param("id")})
}

func (s *Server) projectForm(c *gin.Context) (*projectForm, bool) {
	form, err := readProjectForm(c, s.engine.MaxMultipartMemory)
	if err != nil {
		if errors.Is(err, errBodyTooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, err.Error())
		} else {
			fail(c, http.StatusBadRequest, "malformed form body")
		}
		return nil, false
	}
	return form, true
}

// ---- messages ----

func (s *Server) handleListMessages(c *gin.Context) {
	list, err := s.svc.Messages.List(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	okWith(c, list)
}

func (s *Server) handleSetMessageStatus(c *gin.Context) {
	var req struct {
		Status models.MessageStatus `json:"status"`
	}
	if !bindJSON(c, &req) {
		return
	}

	msg, err := s.svc.Messages.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		s.respondError(c, err)
		return
	}
	okWith(c, msg)
}

func (s *Server) handleDeleteMessage(c *gin.Context) {
	if err := s.svc.Messages.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	okWith(c, gin.H{"id": c.Param("id")})
}

func (s *Server) handleContact(c *gin.Context) {
	var req services.ContactInput
	if !bindJSON(c, &req) {
		return
	}

	msg, err := s.svc.Messages.Submit(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	okCreated(c, gin.H{"id": msg.ID})
}

// ---- tags ----

func (s *Server) handleListTags(c *gin.Context) {
	list, err := s.svc.Tags.List(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	okWith(c, list)
}

func (s *Server) handleCreateTag(c *gin.Context) {
	var req services.TagInput
	if !bindJSON(c, &req) {
		return
	}

	tag, err := s.svc.Tags.Create(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	okCreated(c, tag)
}

func (s *Server) handleDeleteTag(c *gin.Context) {
	if err := s.svc.Tags.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	okWith(c, gin.H{"id": c.Param("id")})
}

// ---- settings ----

func (s *Server) handleGetSettings(c *gin.Context) {
	st, err := s.svc.Settings.Get(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	okWith(c, st)
}

func (s *Server) handleSaveSettings(c *gin.Context) {
	var req models.Settings
	if !bindJSON(c, &req) {
		return
	}

	st, err := s.svc.Settings.Save(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	okWith(c, st)
}
