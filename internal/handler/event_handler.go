package handler

import (
	"net/http"
	"strconv"

	"missioncontrol/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultEventLimit = 100
	maxEventLimit     = 500
)

type EventHandler struct {
	events EventStore
	logger *zap.Logger
}

func NewEventHandler(events EventStore, logger *zap.Logger) *EventHandler {
	return &EventHandler{events: events, logger: logger}
}

// List handles GET /api/events?projectId=&limit=
func (h *EventHandler) List(c *gin.Context) {
	if c.Query("projectId") == "" {
		badRequest(c, "projectId query param is required")
		return
	}
	projectID, ok := idParam(c, "projectId", c.Query("projectId"))
	if !ok {
		return
	}

	limit := defaultEventLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			badRequest(c, "limit must be a positive integer")
			return
		}
		limit = min(n, maxEventLimit)
	}

	events, err := h.events.ListRecent(c.Request.Context(), projectID, limit)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// Create handles POST /api/events, for integrations that post directly instead of through the queue.
func (h *EventHandler) Create(c *gin.Context) {
	var req model.CreateEventRequest
	if !bindJSON(c, &req) {
		return
	}
	e, err := req.Event()
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	out, err := h.events.Insert(c.Request.Context(), e)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}
