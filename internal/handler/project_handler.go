package handler

import (
	"net/http"
	"strings"

	"missioncontrol/internal/model"
	"missioncontrol/pkg/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProjectHandler struct {
	projects ProjectStore
	logger   *zap.Logger
}

func NewProjectHandler(projects ProjectStore, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, logger: logger}
}

// List handles GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projects.List(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// Get handles GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id", c.Param("id"))
	if !ok {
		return
	}
	p, err := h.projects.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

// Create handles POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req model.CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.ClientName = strings.TrimSpace(req.ClientName)
	req.ClientSlug = strings.ToLower(strings.TrimSpace(req.ClientSlug))
	if req.Name == "" {
		badRequest(c, "Project name is required")
		return
	}
	if req.ClientSlug == "" {
		badRequest(c, "Client slug is required")
		return
	}

	var hash *string
	if pw := strings.TrimSpace(req.ClientPassword); pw != "" {
		hashed, err := util.HashPassword(pw)
		if err != nil {
			writeError(c, h.logger, err)
			return
		}
		hash = &hashed
	}
	req.ClientPassword = ""

	id, err := h.projects.Create(c.Request.Context(), req, hash)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// Update handles PATCH /api/projects
func (h *ProjectHandler) Update(c *gin.Context) {
	var req model.UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	id, ok := idParam(c, "id", req.ID)
	if !ok {
		return
	}
	req.ID = id
	if req.BudgetHours != nil && *req.BudgetHours < 0 {
		badRequest(c, "budget_hours must not be negative")
		return
	}
	if req.UsedHours != nil && *req.UsedHours < 0 {
		badRequest(c, "used_hours must not be negative")
		return
	}
	if req.NextMilestone != nil {
		trimmed := strings.TrimSpace(*req.NextMilestone)
		if trimmed == "" {
			req.NextMilestone = nil
		} else {
			req.NextMilestone = &trimmed
		}
	}

	p, err := h.projects.Update(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

// Delete handles DELETE /api/projects?id=
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id", c.Query("id"))
	if !ok {
		return
	}
	if err := h.projects.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
