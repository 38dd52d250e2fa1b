package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"petpulse-backend-go/internal/core"
	"petpulse-backend-go/internal/middleware"
)

// AuthHandler handles post-login profile bootstrapping.
type AuthHandler struct {
	userService core.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(us core.UserService) *AuthHandler {
	return &AuthHandler{userService: us}
}

// InitializeUserProfile handles POST /api/v1/users/initialize. The client
// calls it right after Firebase sign-in so a backend profile document exists
// for every authenticated account. The operation is idempotent.
func (h *AuthHandler) InitializeUserProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, created, err := h.userService.GetOrCreate(
		c.Request.Context(),
		userID,
		c.GetString(middleware.ContextUserEmail),
		c.GetString(middleware.ContextDisplayName),
		c.GetString(middleware.ContextPhotoURL),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to initialize user profile", Details: err.Error()})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, user)
}
