package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"petpulse-backend-go/internal/core"
	"petpulse-backend-go/internal/models"
)

// AdminHandler handles administrator-only endpoints. Authorization is
// enforced in the user service against the caller's stored role.
type AdminHandler struct {
	userService core.UserService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(us core.UserService) *AdminHandler {
	return &AdminHandler{userService: us}
}

// ListUsers handles GET /api/v1/admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid 'limit' value"})
			return
		}
		limit = n
	}

	users, err := h.userService.ListUsers(c.Request.Context(), actorID, limit)
	if err != nil {
		if errors.Is(err, core.ErrNotAdmin) {
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Administrator access required"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list users", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, users)
}

// SetPremiumGrant handles PUT /api/v1/admin/users/:userId/premium.
func (h *AdminHandler) SetPremiumGrant(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.SetPremiumGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.userService.SetPremiumGrant(c.Request.Context(), actorID, c.Param("userId"), req.Granted); err != nil {
		switch {
		case errors.Is(err, core.ErrNotAdmin):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Administrator access required"})
		case errors.Is(err, core.ErrUserNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Target user not found"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update premium grant", Details: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Premium grant updated"})
}
