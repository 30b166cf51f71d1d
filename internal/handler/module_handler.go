package handler

import (
	"net/http"
	"strings"

	"missioncontrol/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ModuleHandler struct {
	modules ModuleStore
	logger  *zap.Logger
}

func NewModuleHandler(modules ModuleStore, logger *zap.Logger) *ModuleHandler {
	return &ModuleHandler{modules: modules, logger: logger}
}

// List handles GET /api/modules?projectId=
func (h *ModuleHandler) List(c *gin.Context) {
	projectID, ok := idParam(c, "projectId", c.Query("projectId"))
	if !ok {
		return
	}
	modules, err := h.modules.ListWithTasks(c.Request.Context(), projectID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"modules": modules})
}

// Create handles POST /api/modules
func (h *ModuleHandler) Create(c *gin.Context) {
	var req model.CreateModuleRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.ProjectID == "" || req.Name == "" {
		badRequest(c, "projectId and name are required")
		return
	}
	projectID, ok := idParam(c, "projectId", req.ProjectID)
	if !ok {
		return
	}

	m, err := h.modules.Create(c.Request.Context(), projectID, req.Name)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// Delete handles DELETE /api/modules?id=
func (h *ModuleHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id", c.Query("id"))
	if !ok {
		return
	}
	if err := h.modules.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
