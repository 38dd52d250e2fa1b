package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"petpulse-backend-go/internal/core"
)

// RequirePremium gates a route on an active subscription or trial. It must
// run after VerifyToken so the caller identity is in the context.
func RequirePremium(subs core.SubscriptionService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ContextUserID)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		status := subs.Resolve(c.Request.Context(), userID, c.GetString(ContextUserEmail))
		if !status.IsActive {
			logger.Debug("Premium route denied", zap.String("user_id", userID))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "An active subscription is required for this feature"})
			return
		}

		c.Next()
	}
}
