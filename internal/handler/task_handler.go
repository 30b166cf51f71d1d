package handler

import (
	"net/http"
	"strings"

	"missioncontrol/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TaskHandler struct {
	tasks  TaskStore
	logger *zap.Logger
}

func NewTaskHandler(tasks TaskStore, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, logger: logger}
}

// Create handles POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req model.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.ModuleID == "" || req.ProjectID == "" || req.Title == "" {
		badRequest(c, "moduleId, projectId, and title are required")
		return
	}
	var ok bool
	if req.ModuleID, ok = idParam(c, "moduleId", req.ModuleID); !ok {
		return
	}
	if req.ProjectID, ok = idParam(c, "projectId", req.ProjectID); !ok {
		return
	}

	t, err := h.tasks.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// Patch handles PATCH /api/tasks/:id. Only qa_checks, status and pr_url are accepted.
func (h *TaskHandler) Patch(c *gin.Context) {
	id, ok := idParam(c, "id", c.Param("id"))
	if !ok {
		return
	}

	var patch model.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "Invalid JSON body")
		return
	}
	if patch.Empty() {
		badRequest(c, "No valid fields to update")
		return
	}
	if patch.Status != nil && !patch.Status.Valid() {
		badRequest(c, "status must be one of backlog, in_dev, in_qa, approved, deployed, failed")
		return
	}
	if patch.QAChecks != nil {
		if err := patch.QAChecks.Validate(); err != nil {
			writeError(c, h.logger, err)
			return
		}
	}

	t, err := h.tasks.Patch(c.Request.Context(), id, patch)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": t})
}

// Delete handles DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id", c.Param("id"))
	if !ok {
		return
	}
	if err := h.tasks.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
