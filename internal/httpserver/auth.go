package httpserver

import (
	"net/http"

	"missioncontrol/internal/handler"
	"missioncontrol/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminAuth resolves the auth provider token from the Authorization header
// or the session cookie. With required set, requests without a valid token get 401.
func AdminAuth(jwtSecret, cookieName string, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := util.ExtractToken(c.Request, cookieName)
		if token == "" {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			c.Next()
			return
		}

		claims, err := util.ParseAccessToken(token, jwtSecret)
		if err != nil {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			c.Next()
			return
		}

		handler.SetAdmin(c, handler.AdminUser{ID: claims.Subject, Email: claims.Email})
		c.Next()
	}
}

// ClientSession exposes the project id in the client_session cookie. Malformed values are ignored.
func ClientSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(handler.SessionCookie); err == nil && raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				handler.SetSessionProject(c, id.String())
			}
		}
		c.Next()
	}
}
