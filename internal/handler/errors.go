package handler

import (
	"errors"
	"net/http"

	"missioncontrol/internal/model"
	"missioncontrol/internal/repository"
	"missioncontrol/internal/service/clientauth"
	"missioncontrol/internal/service/dashboard"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const slugTakenMessage = "That client slug is already taken. Choose a different one."

// writeError maps err to the HTTP error taxonomy and writes {"error": ...}.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
	case errors.Is(err, clientauth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
	case errors.Is(err, dashboard.ErrSessionMismatch):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, repository.ErrSlugTaken):
		c.JSON(http.StatusConflict, gin.H{"error": slugTakenMessage})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// bindJSON decodes the body, answering 400 "Invalid request" on failure.
func bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		badRequest(c, "Invalid request")
		return false
	}
	return true
}

// idParam validates a required id from the query string or path.
func idParam(c *gin.Context, field, raw string) (string, bool) {
	id, err := model.ParseID(field, raw)
	if err != nil {
		badRequest(c, err.Error())
		return "", false
	}
	return id, true
}
