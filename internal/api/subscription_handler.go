package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"petpulse-backend-go/internal/core"
	"petpulse-backend-go/internal/middleware"
	"petpulse-backend-go/internal/models"
	"petpulse-backend-go/pkg/cache"
)

// SubscriptionHandler exposes the entitlement status endpoint and trial
// management. Resolved statuses are cached briefly in Redis so a chatty
// client does not hammer Firestore and Stripe.
type SubscriptionHandler struct {
	subs     core.SubscriptionService
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewSubscriptionHandler creates a SubscriptionHandler. statusCache may be
// nil, in which case every request resolves fresh.
func NewSubscriptionHandler(subs core.SubscriptionService, statusCache cache.Cache, cacheTTL time.Duration, logger *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{subs: subs, cache: statusCache, cacheTTL: cacheTTL, logger: logger}
}

func statusCacheKey(userID string) string {
	return fmt.Sprintf("substatus:%s", userID)
}

// GetStatus handles GET /api/v1/subscription/status.
func (h *SubscriptionHandler) GetStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if h.cache != nil {
		if cached, err := h.cache.Get(c.Request.Context(), statusCacheKey(userID)); err == nil {
			var status models.SubscriptionStatus
			if jsonErr := json.Unmarshal([]byte(cached), &status); jsonErr == nil {
				c.JSON(http.StatusOK, status)
				return
			}
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			h.logger.Warn("Subscription status cache read failed", zap.Error(err))
		}
	}

	status := h.subs.Resolve(c.Request.Context(), userID, c.GetString(middleware.ContextUserEmail))

	if h.cache != nil {
		if encoded, err := json.Marshal(status); err == nil {
			if err := h.cache.Set(c.Request.Context(), statusCacheKey(userID), string(encoded), h.cacheTTL); err != nil {
				h.logger.Warn("Subscription status cache write failed", zap.Error(err))
			}
		}
	}

	c.JSON(http.StatusOK, status)
}

// StartTrial handles POST /api/v1/subscription/trial.
func (h *SubscriptionHandler) StartTrial(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.subs.StartTrial(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrAlreadyPremium):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Account already has premium access"})
		case errors.Is(err, core.ErrTrialAlreadyUsed):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Free trial has already been used"})
		case errors.Is(err, core.ErrUserNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User profile not found"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to start trial", Details: err.Error()})
		}
		return
	}

	h.invalidateStatus(c, userID)
	c.JSON(http.StatusOK, user)
}

// CancelTrial handles DELETE /api/v1/subscription/trial.
func (h *SubscriptionHandler) CancelTrial(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.subs.CancelTrial(c.Request.Context(), userID); err != nil {
		switch {
		case errors.Is(err, core.ErrNoActiveTrial):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "No active trial to cancel"})
		case errors.Is(err, core.ErrUserNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User profile not found"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to cancel trial", Details: err.Error()})
		}
		return
	}

	h.invalidateStatus(c, userID)
	c.JSON(http.StatusOK, SuccessResponse{Message: "Trial canceled"})
}

func (h *SubscriptionHandler) invalidateStatus(c *gin.Context, userID string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Delete(c.Request.Context(), statusCacheKey(userID)); err != nil {
		h.logger.Warn("Subscription status cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}
