package handler

import (
	"errors"
	"net/http"
	"net/url"

	"missioncontrol/internal/repository"
	"missioncontrol/internal/service/dashboard"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionMaxAge = 86400

// ClientAuthHandler serves the password gate and the client dashboard.
type ClientAuthHandler struct {
	auth         Authenticator
	dashboards   DashboardBuilder
	projects     ProjectStore
	cookieSecure bool
	logger       *zap.Logger
}

func NewClientAuthHandler(auth Authenticator, dashboards DashboardBuilder, projects ProjectStore, cookieSecure bool, logger *zap.Logger) *ClientAuthHandler {
	return &ClientAuthHandler{
		auth:         auth,
		dashboards:   dashboards,
		projects:     projects,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

// Login handles POST /api/client/auth
func (h *ClientAuthHandler) Login(c *gin.Context) {
	var req struct {
		Slug     string `json:"slug"`
		Password string `json:"password"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if req.Slug == "" || req.Password == "" {
		badRequest(c, "slug and password are required")
		return
	}

	projectID, err := h.auth.Login(c.Request.Context(), req.Slug, req.Password)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.setSession(c, projectID, sessionMaxAge)
	c.JSON(http.StatusOK, gin.H{"success": true, "projectId": projectID})
}

// Logout handles DELETE /api/client/auth
func (h *ClientAuthHandler) Logout(c *gin.Context) {
	h.setSession(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ClientAuthHandler) setSession(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, value, maxAge, "/", "", h.cookieSecure, true)
}

// LoginPage handles GET /client/:slug. A session that owns the slug goes
// straight to the dashboard; any other session is stale here and is cleared.
func (h *ClientAuthHandler) LoginPage(c *gin.Context) {
	slug := c.Param("slug")
	session := SessionProject(c)

	name := "Project"
	p, err := h.projects.GetClientProject(c.Request.Context(), slug)
	switch {
	case err == nil:
		if session != "" && session == p.ID {
			c.Redirect(http.StatusFound, "/client/"+url.PathEscape(slug)+"/dashboard")
			return
		}
		name = p.Name
	case !errors.Is(err, repository.ErrNotFound):
		writeError(c, h.logger, err)
		return
	}

	if session != "" {
		h.setSession(c, "", -1)
	}
	c.JSON(http.StatusOK, gin.H{"slug": slug, "project_name": name})
}

// DashboardPage handles GET /client/:slug/dashboard
func (h *ClientAuthHandler) DashboardPage(c *gin.Context) {
	slug := c.Param("slug")
	payload, err := h.dashboards.ClientDashboard(c.Request.Context(), slug, SessionProject(c))
	if err != nil {
		if errors.Is(err, dashboard.ErrSessionMismatch) || errors.Is(err, repository.ErrNotFound) {
			c.Redirect(http.StatusFound, "/client/"+url.PathEscape(slug))
			return
		}
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

// Dashboard handles GET /api/client/:slug
func (h *ClientAuthHandler) Dashboard(c *gin.Context) {
	session := SessionProject(c)
	if session == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	payload, err := h.dashboards.ClientDashboard(c.Request.Context(), c.Param("slug"), session)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = dashboard.ErrSessionMismatch
		}
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}
