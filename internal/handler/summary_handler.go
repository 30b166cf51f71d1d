package handler

import (
	"errors"
	"net/http"

	"missioncontrol/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SummaryHandler struct {
	summaries SummaryGetter
	logger    *zap.Logger
}

func NewSummaryHandler(summaries SummaryGetter, logger *zap.Logger) *SummaryHandler {
	return &SummaryHandler{summaries: summaries, logger: logger}
}

// Get handles GET /api/summary/:projectId. Admins see any project, clients only their own.
func (h *SummaryHandler) Get(c *gin.Context) {
	projectID, ok := idParam(c, "projectId", c.Param("projectId"))
	if !ok {
		return
	}
	if _, admin := AdminFrom(c); !admin && SessionProject(c) != projectID {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	res, err := h.summaries.Get(c.Request.Context(), projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Me handles GET /api/me
func Me(c *gin.Context) {
	u, ok := AdminFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, u)
}
