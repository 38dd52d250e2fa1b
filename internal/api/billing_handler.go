package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"petpulse-backend-go/internal/core"
	"petpulse-backend-go/internal/models"
)

// Stripe caps webhook payloads well below this.
const maxWebhookBodyBytes = 1 << 16

// BillingHandler handles checkout, customer portal and Stripe webhooks.
type BillingHandler struct {
	billing core.BillingService
	logger  *zap.Logger
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(billing core.BillingService, logger *zap.Logger) *BillingHandler {
	return &BillingHandler{billing: billing, logger: logger}
}

// CreateCheckoutSession handles POST /api/v1/billing/create-checkout-session.
func (h *BillingHandler) CreateCheckoutSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateCheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	url, err := h.billing.CreateCheckoutSession(c.Request.Context(), userID, req.Plan)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrPlanNotPurchasable):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Selected plan cannot be purchased"})
		case errors.Is(err, core.ErrUserNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User profile not found"})
		default:
			h.logger.Error("Checkout session creation failed", zap.String("user_id", userID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create checkout session"})
		}
		return
	}

	c.JSON(http.StatusOK, SessionURLResponse{URL: url})
}

// CreatePortalSession handles POST /api/v1/billing/create-portal-session.
func (h *BillingHandler) CreatePortalSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	url, err := h.billing.CreatePortalSession(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrUserStripeNotLinked):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "No billing account is linked to this user"})
		case errors.Is(err, core.ErrUserNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User profile not found"})
		default:
			h.logger.Error("Portal session creation failed", zap.String("user_id", userID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create portal session"})
		}
		return
	}

	c.JSON(http.StatusOK, SessionURLResponse{URL: url})
}

// HandleStripeWebhook handles POST /api/v1/billing/webhooks/stripe. Stripe
// authenticates itself through the signature header, so the route is public.
func (h *BillingHandler) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to read webhook payload"})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if err := h.billing.HandleStripeWebhook(c.Request.Context(), signature, payload); err != nil {
		if errors.Is(err, core.ErrWebhookSignature) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Webhook signature verification failed"})
			return
		}
		h.logger.Error("Stripe webhook processing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to process webhook event"})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Webhook received"})
}
