package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v79"
	portalsession "github.com/stripe/stripe-go/v79/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"

	"petpulse-backend-go/internal/db"
	"petpulse-backend-go/internal/models"
)

var (
	// ErrPlanNotPurchasable is returned for a checkout request naming a plan
	// without a configured price.
	ErrPlanNotPurchasable = errors.New("plan has no configured price")
	// ErrStripeClient wraps failures talking to the Stripe API.
	ErrStripeClient = errors.New("stripe client operation failed")
	// ErrWebhookSignature is returned when webhook signature verification fails.
	ErrWebhookSignature = errors.New("stripe webhook signature verification failed")
	// ErrUserStripeNotLinked is returned when no Stripe customer exists for the user.
	ErrUserStripeNotLinked = errors.New("user does not have a Stripe customer")
)

// billingService implements the BillingService interface against the real
// Stripe API. Webhook events never mutate entitlement directly beyond
// clearing a deleted subscription; they schedule a reconciliation so the
// resolver remains the single writer of the cached mirror.
type billingService struct {
	userRepo      db.UserRepository
	billing       BillingProvider
	notifier      ReconciliationNotifier
	mailer        Mailer
	audit         AuditService
	prices        map[models.Plan]string
	webhookSecret string
	clientURL     string
	logger        *zap.Logger
}

// NewBillingService creates a BillingService. prices maps purchasable plans
// to their Stripe price IDs.
func NewBillingService(
	userRepo db.UserRepository,
	billing BillingProvider,
	notifier ReconciliationNotifier,
	mailer Mailer,
	audit AuditService,
	prices map[models.Plan]string,
	webhookSecret string,
	clientURL string,
	logger *zap.Logger,
) BillingService {
	return &billingService{
		userRepo:      userRepo,
		billing:       billing,
		notifier:      notifier,
		mailer:        mailer,
		audit:         audit,
		prices:        prices,
		webhookSecret: webhookSecret,
		clientURL:     strings.TrimRight(clientURL, "/"),
		logger:        logger,
	}
}

// CreateCheckoutSession starts a Stripe Checkout session for the given plan
// and returns its URL. The user ID rides along as the client reference so the
// completion webhook can map the session back to an account.
func (s *billingService) CreateCheckoutSession(ctx context.Context, userID string, plan models.Plan) (string, error) {
	priceID, ok := s.prices[plan]
	if !ok || priceID == "" {
		return "", fmt.Errorf("%w: %q", ErrPlanNotPurchasable, plan)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", fmt.Errorf("%w: user '%s'", ErrUserNotFound, userID)
		}
		return "", fmt.Errorf("failed to load user '%s' for checkout: %w", userID, err)
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		ClientReferenceID: stripe.String(userID),
		SuccessURL:        stripe.String(s.clientURL + "/billing/success"),
		CancelURL:         stripe.String(s.clientURL + "/billing/cancel"),
	}
	// Reuse the known customer when we have one; otherwise let Stripe match
	// or create by email.
	if user.Subscription != nil && user.Subscription.CustomerID != "" {
		params.Customer = stripe.String(user.Subscription.CustomerID)
	} else if user.Email != "" {
		params.CustomerEmail = stripe.String(user.Email)
	}

	sess, err := checkoutsession.New(params)
	if err != nil {
		s.logger.Error("stripe checkout session failed", zap.String("userId", userID), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrStripeClient, err)
	}
	return sess.URL, nil
}

// CreatePortalSession creates a Stripe Customer Portal session for managing
// an existing subscription.
func (s *billingService) CreatePortalSession(ctx context.Context, userID string) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", fmt.Errorf("%w: user '%s'", ErrUserNotFound, userID)
		}
		return "", fmt.Errorf("failed to load user '%s' for portal: %w", userID, err)
	}

	customerID := ""
	if user.Subscription != nil {
		customerID = user.Subscription.CustomerID
	}
	if customerID == "" && user.Email != "" {
		cust, err := s.billing.FindCustomerByEmail(ctx, user.Email)
		if err != nil {
			s.logger.Error("stripe customer lookup failed", zap.String("userId", userID), zap.Error(err))
			return "", fmt.Errorf("%w: %v", ErrStripeClient, err)
		}
		if cust != nil {
			customerID = cust.ID
		}
	}
	if customerID == "" {
		return "", fmt.Errorf("%w: user '%s'", ErrUserStripeNotLinked, userID)
	}

	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(s.clientURL + "/settings/billing"),
	}
	sess, err := portalsession.New(params)
	if err != nil {
		s.logger.Error("stripe portal session failed", zap.String("userId", userID), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrStripeClient, err)
	}
	return sess.URL, nil
}

// HandleStripeWebhook verifies the event signature and processes the event.
func (s *billingService) HandleStripeWebhook(ctx context.Context, signature string, payload []byte) error {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWebhookSignature, err)
	}
	return s.processEvent(ctx, event)
}

// processEvent dispatches a verified Stripe event. Unhandled event types are
// acknowledged without action.
func (s *billingService) processEvent(ctx context.Context, event stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fmt.Errorf("failed to unmarshal checkout session: %w", err)
		}
		userID := sess.ClientReferenceID
		if userID == "" {
			s.logger.Warn("checkout.session.completed without client reference id",
				zap.String("eventId", event.ID))
			return nil
		}
		if err := s.notifier.ScheduleReconciliation(ctx, userID); err != nil {
			s.logger.Warn("failed to schedule reconciliation after checkout",
				zap.String("userId", userID), zap.Error(err))
		}
		return nil

	case "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("failed to unmarshal subscription: %w", err)
		}
		if sub.Customer == nil {
			return nil
		}
		user, err := s.userRepo.GetByStripeCustomerID(ctx, sub.Customer.ID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				// No account references this customer yet; the next resolve
				// will pick the change up through the live lookup.
				return nil
			}
			return fmt.Errorf("failed to find user for customer '%s': %w", sub.Customer.ID, err)
		}
		if err := s.notifier.ScheduleReconciliation(ctx, user.ID); err != nil {
			s.logger.Warn("failed to schedule reconciliation after subscription update",
				zap.String("userId", user.ID), zap.Error(err))
		}
		return nil

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("failed to unmarshal subscription: %w", err)
		}
		if sub.Customer == nil {
			return nil
		}
		user, err := s.userRepo.GetByStripeCustomerID(ctx, sub.Customer.ID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("failed to find user for customer '%s': %w", sub.Customer.ID, err)
		}
		if err := s.userRepo.ClearSubscription(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to clear subscription for user '%s': %w", user.ID, err)
		}
		if s.audit != nil {
			s.audit.Record(ctx, models.AuditActionSubscriptionDeleted, "stripe", user.ID, sub.ID)
		}
		if s.mailer != nil && user.Email != "" {
			recipient, name := user.Email, user.DisplayName
			go func() {
				body := fmt.Sprintf("<p>Hi %s,</p><p>Your PetPulse premium subscription has ended. "+
					"You can resubscribe any time from the billing page.</p>", name)
				if err := s.mailer.Send(recipient, "Your PetPulse subscription has ended", body); err != nil {
					s.logger.Warn("failed to send subscription end mail",
						zap.String("userId", user.ID), zap.Error(err))
				}
			}()
		}
		return nil

	default:
		// Intentionally ignore unhandled events.
		return nil
	}
}
