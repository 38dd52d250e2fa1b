package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"petpulse-backend-go/internal/middleware"
)

// currentUserID reads the authenticated user ID set by the auth middleware.
// When missing it writes a 401 and returns false.
func currentUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: User ID not found in context"})
		return "", false
	}
	return userID, true
}
