package handler

import "github.com/gin-gonic/gin"

const (
	adminContextKey   = "admin_user"
	sessionContextKey = "client_project_id"
	SessionCookie     = "client_session"
)

// AdminUser is the authenticated staff member behind an admin request.
type AdminUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func SetAdmin(c *gin.Context, u AdminUser) {
	c.Set(adminContextKey, u)
}

func AdminFrom(c *gin.Context) (AdminUser, bool) {
	v, ok := c.Get(adminContextKey)
	if !ok {
		return AdminUser{}, false
	}
	u, ok := v.(AdminUser)
	return u, ok
}

func SetSessionProject(c *gin.Context, projectID string) {
	c.Set(sessionContextKey, projectID)
}

// SessionProject is the project id carried by the client_session cookie, if any.
func SessionProject(c *gin.Context) string {
	return c.GetString(sessionContextKey)
}
