package handler

import (
	"net/http"
	"strings"

	"missioncontrol/internal/model"
	"missioncontrol/pkg/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ClientHandler struct {
	clients ClientStore
	logger  *zap.Logger
}

func NewClientHandler(clients ClientStore, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{clients: clients, logger: logger}
}

// List handles GET /api/clients?project_id=
func (h *ClientHandler) List(c *gin.Context) {
	projectID, ok := idParam(c, "project_id", c.Query("project_id"))
	if !ok {
		return
	}
	clients, err := h.clients.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// Create handles POST /api/clients. The password is stored hashed and never echoed.
func (h *ClientHandler) Create(c *gin.Context) {
	var req model.CreateClientRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Password = strings.TrimSpace(req.Password)
	if req.ProjectID == "" || req.Name == "" || req.Password == "" {
		badRequest(c, "project_id, name, and password are required")
		return
	}
	projectID, ok := idParam(c, "project_id", req.ProjectID)
	if !ok {
		return
	}
	if req.Email != nil {
		e := strings.TrimSpace(*req.Email)
		if e == "" {
			req.Email = nil
		} else {
			req.Email = &e
		}
	}

	hash, err := util.HashPassword(req.Password)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	client, err := h.clients.Create(c.Request.Context(), projectID, req.Name, req.Email, hash)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// Delete handles DELETE /api/clients?id=
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id", c.Query("id"))
	if !ok {
		return
	}
	if err := h.clients.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
