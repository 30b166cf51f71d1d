package handler

import (
	"net/http"
	"strings"

	"missioncontrol/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BlockerHandler struct {
	blockers BlockerStore
	logger   *zap.Logger
}

func NewBlockerHandler(blockers BlockerStore, logger *zap.Logger) *BlockerHandler {
	return &BlockerHandler{blockers: blockers, logger: logger}
}

// List handles GET /api/blockers?project_id=&status=
func (h *BlockerHandler) List(c *gin.Context) {
	projectID, ok := idParam(c, "project_id", c.Query("project_id"))
	if !ok {
		return
	}
	var status *model.BlockerStatus
	if raw := c.Query("status"); raw != "" {
		s, err := model.ParseBlockerStatus(raw)
		if err != nil {
			badRequest(c, "status must be open or resolved")
			return
		}
		status = &s
	}

	blockers, err := h.blockers.ListByProject(c.Request.Context(), projectID, status)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blockers": blockers})
}

// Create handles POST /api/blockers
func (h *BlockerHandler) Create(c *gin.Context) {
	var req model.CreateBlockerRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.ProjectID == "" || req.Title == "" || req.WaitingOn == "" {
		badRequest(c, "project_id, title, and waiting_on are required")
		return
	}
	projectID, ok := idParam(c, "project_id", req.ProjectID)
	if !ok {
		return
	}
	waitingOn, err := model.ParseWaitingOn(req.WaitingOn)
	if err != nil {
		badRequest(c, "waiting_on must be client or team")
		return
	}

	b, err := h.blockers.Create(c.Request.Context(), projectID, req.Title, waitingOn)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// Update handles PATCH /api/blockers
func (h *BlockerHandler) Update(c *gin.Context) {
	var req model.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.ID == "" || req.Status == "" {
		badRequest(c, "id and status are required")
		return
	}
	id, ok := idParam(c, "id", req.ID)
	if !ok {
		return
	}
	status, err := model.ParseBlockerStatus(req.Status)
	if err != nil {
		badRequest(c, "status must be open or resolved")
		return
	}

	b, err := h.blockers.SetStatus(c.Request.Context(), id, status)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
