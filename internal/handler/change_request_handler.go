package handler

import (
	"net/http"
	"strings"

	"missioncontrol/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const changeRequestStatusMessage = "status must be pending, approved, or rejected"

type ChangeRequestHandler struct {
	changeRequests ChangeRequestStore
	logger         *zap.Logger
}

func NewChangeRequestHandler(changeRequests ChangeRequestStore, logger *zap.Logger) *ChangeRequestHandler {
	return &ChangeRequestHandler{changeRequests: changeRequests, logger: logger}
}

// List handles GET /api/change-requests?project_id=
func (h *ChangeRequestHandler) List(c *gin.Context) {
	projectID, ok := idParam(c, "project_id", c.Query("project_id"))
	if !ok {
		return
	}
	crs, err := h.changeRequests.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changeRequests": crs})
}

// Create handles POST /api/change-requests. Status defaults to pending.
func (h *ChangeRequestHandler) Create(c *gin.Context) {
	var req model.CreateChangeRequestRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.ProjectID == "" || req.Title == "" {
		badRequest(c, "project_id and title are required")
		return
	}
	projectID, ok := idParam(c, "project_id", req.ProjectID)
	if !ok {
		return
	}

	status := model.ChangeRequestPending
	if req.Status != "" {
		s, err := model.ParseChangeRequestStatus(req.Status)
		if err != nil {
			badRequest(c, changeRequestStatusMessage)
			return
		}
		status = s
	}
	var hours float64
	if req.HoursImpact != nil {
		hours = *req.HoursImpact
	}
	if req.Description != nil {
		d := strings.TrimSpace(*req.Description)
		if d == "" {
			req.Description = nil
		} else {
			req.Description = &d
		}
	}

	cr, err := h.changeRequests.Create(c.Request.Context(), projectID, req.Title, req.Description, status, hours)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, cr)
}

// Update handles PATCH /api/change-requests
func (h *ChangeRequestHandler) Update(c *gin.Context) {
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
	status, err := model.ParseChangeRequestStatus(req.Status)
	if err != nil {
		badRequest(c, changeRequestStatusMessage)
		return
	}

	cr, err := h.changeRequests.SetStatus(c.Request.Context(), id, status)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cr)
}
