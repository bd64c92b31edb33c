package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schooldesk/server/common/transport/httpresp"
)

type sessionSource interface {
	HasSession() bool
}

// SessionRequired guards the dashboard panels: without a logged-in session
// every panel route answers 401 and the caller is expected to show the login
// view. The backend token itself is attached by the API client, not here.
func SessionRequired(sessions sessionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sessions.HasSession() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpresp.NewErrorResponse(httpresp.ErrLoginRequired))
			return
		}
		c.Next()
	}
}
