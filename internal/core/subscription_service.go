package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"petpulse-backend-go/internal/db"
	"petpulse-backend-go/internal/models"
)

var (
	// ErrAlreadyPremium is returned when a trial is requested by an account
	// that already has premium entitlement.
	ErrAlreadyPremium = errors.New("account already has premium entitlement")
	// ErrTrialAlreadyUsed is returned when an account has consumed its one
	// trial window.
	ErrTrialAlreadyUsed = errors.New("trial already used")
	// ErrNoActiveTrial is returned when canceling a trial that is not running.
	ErrNoActiveTrial = errors.New("no active trial")
)

// subscriptionService resolves premium entitlement by reconciling three
// sources of truth in fixed precedence: admin grant, cached subscription
// mirror, live billing lookup; a trial window outranks plain free.
type subscriptionService struct {
	userRepo  db.UserRepository
	billing   BillingProvider
	catalog   models.PlanCatalog
	notifier  ReconciliationNotifier
	mailer    Mailer
	audit     AuditService
	trialDays int
	logger    *zap.Logger
}

// NewSubscriptionService creates a SubscriptionService. mailer may be nil;
// trial notifications are then skipped.
func NewSubscriptionService(
	userRepo db.UserRepository,
	billing BillingProvider,
	catalog models.PlanCatalog,
	notifier ReconciliationNotifier,
	mailer Mailer,
	audit AuditService,
	trialDays int,
	logger *zap.Logger,
) SubscriptionService {
	if trialDays <= 0 {
		trialDays = 14
	}
	return &subscriptionService{
		userRepo:  userRepo,
		billing:   billing,
		catalog:   catalog,
		notifier:  notifier,
		mailer:    mailer,
		audit:     audit,
		trialDays: trialDays,
		logger:    logger,
	}
}

// Resolve walks a short-circuiting cascade and always terminates in a valid
// status. Every external failure is logged and degrades to the free status;
// callers cannot distinguish "not premium" from "lookup failed".
func (s *subscriptionService) Resolve(ctx context.Context, userID, callerEmail string) models.SubscriptionStatus {
	return s.resolve(ctx, userID, callerEmail, false)
}

// Reconcile runs the cascade without the optimistic stale-cache shortcut, so
// the isPremium-without-mirror state it exists to repair actually reaches the
// live billing lookup. The mirror is written back on success and the stale
// flag cleared when billing conclusively has no subscription; no further
// reconciliation is ever scheduled from here.
func (s *subscriptionService) Reconcile(ctx context.Context, userID string) models.SubscriptionStatus {
	return s.resolve(ctx, userID, "", true)
}

func (s *subscriptionService) resolve(ctx context.Context, userID, callerEmail string, force bool) models.SubscriptionStatus {
	if userID == "" {
		return models.SubscriptionStatus{Plan: models.PlanFree}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			s.logger.Warn("subscription resolve: account fetch failed",
				zap.String("userId", userID), zap.Error(err))
		}
		return models.SubscriptionStatus{Plan: models.PlanFree}
	}

	// Admin grants outrank every billing source and never consult Stripe.
	// The plan is reported as free; the UI shows the admin badge separately.
	if user.AdminGrantedPremium || (user.Subscription != nil && user.Subscription.AdminGranted) {
		st := s.freeStatus(user)
		st.IsActive = true
		st.AdminGranted = true
		return st
	}

	// isPremium set with no cached subscription is a known inconsistency.
	// Trust the cheap signal now and reconcile out of band rather than
	// blocking this call on a live lookup. A forced resolution skips the
	// shortcut and carries on to the lookup.
	if user.IsPremium && user.Subscription == nil && !force {
		if err := s.notifier.ScheduleReconciliation(ctx, userID); err != nil {
			s.logger.Warn("subscription resolve: failed to schedule reconciliation",
				zap.String("userId", userID), zap.Error(err))
		}
		st := s.freeStatus(user)
		st.IsActive = true
		return st
	}

	// Resolve the email used as the join key to the billing provider: the
	// caller's own session email first, then the stored account email, then
	// whatever the cached mirror recorded.
	email := callerEmail
	if email == "" {
		email = user.Email
	}
	if email == "" && user.Subscription != nil {
		email = user.Subscription.CustomerEmail
	}
	if email == "" {
		s.logger.Warn("subscription resolve: no billing email for user", zap.String("userId", userID))
		return s.freeStatus(user)
	}

	// Cached mirror still active: answer from cache, no live call.
	if user.Subscription.IsActive() {
		sub := user.Subscription
		return models.SubscriptionStatus{
			IsActive:          true,
			Plan:              s.catalog.PlanForPrice(sub.PriceID),
			ExpiresAt:         sub.CurrentPeriodEnd,
			SubscriptionID:    sub.ID,
			CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
			IsTrialActive:     trialRunning(user),
			TrialEndDate:      user.TrialEndDate,
		}
	}

	// Live billing lookup.
	cust, err := s.billing.FindCustomerByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("subscription resolve: customer lookup failed",
			zap.String("userId", userID), zap.Error(err))
		return s.freeStatus(user)
	}
	if cust == nil {
		if force {
			s.clearStalePremium(ctx, userID, user)
		}
		return s.freeStatus(user)
	}

	sub, err := s.billing.ActiveSubscription(ctx, cust.ID)
	if err != nil {
		s.logger.Warn("subscription resolve: subscription lookup failed",
			zap.String("userId", userID), zap.String("customerId", cust.ID), zap.Error(err))
		return s.freeStatus(user)
	}
	if sub == nil {
		if force {
			s.clearStalePremium(ctx, userID, user)
		}
		return s.freeStatus(user)
	}

	plan := s.catalog.PlanForPrice(sub.PriceID)
	periodEnd := sub.CurrentPeriodEnd

	record := &models.SubscriptionRecord{
		ID:                sub.ID,
		Status:            sub.Status,
		PriceID:           sub.PriceID,
		CurrentPeriodEnd:  &periodEnd,
		CustomerID:        cust.ID,
		CustomerEmail:     cust.Email,
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		UpdatedAt:         time.Now().UTC(),
	}
	// Best-effort write-back: the mirror is re-derivable from Stripe on the
	// next resolution, so a failed write is logged and swallowed.
	if err := s.userRepo.SetSubscription(ctx, userID, record, true); err != nil {
		s.logger.Warn("subscription resolve: cache write-back failed",
			zap.String("userId", userID), zap.Error(err))
	}

	// Re-read the trial fields to pick up a concurrent trial change made
	// while the live lookup was in flight.
	trialOn, trialEnd := trialRunning(user), user.TrialEndDate
	if fresh, err := s.userRepo.GetByID(ctx, userID); err == nil {
		trialOn, trialEnd = trialRunning(fresh), fresh.TrialEndDate
	}

	return models.SubscriptionStatus{
		IsActive:          true,
		Plan:              plan,
		ExpiresAt:         &periodEnd,
		SubscriptionID:    sub.ID,
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		IsTrialActive:     trialOn,
		TrialEndDate:      trialEnd,
	}
}

// clearStalePremium drops the isPremium flag after a forced resolution found
// no live subscription, so later resolutions stop scheduling reconciliations
// for it. Errors are transient only; billing already answered.
func (s *subscriptionService) clearStalePremium(ctx context.Context, userID string, user *models.User) {
	if !user.IsPremium {
		return
	}
	if err := s.userRepo.ClearSubscription(ctx, userID); err != nil {
		s.logger.Warn("subscription reconcile: failed to clear stale premium flag",
			zap.String("userId", userID), zap.Error(err))
		return
	}
	user.IsPremium = false
}

// freeStatus builds the fall-through status for a user. An unexpired trial
// window still grants entitlement here; only then does the status degrade to
// plain free.
func (s *subscriptionService) freeStatus(user *models.User) models.SubscriptionStatus {
	st := models.SubscriptionStatus{Plan: models.PlanFree}
	if user == nil {
		return st
	}
	st.TrialEndDate = user.TrialEndDate
	if trialRunning(user) {
		st.IsActive = true
		st.IsTrialActive = true
	}
	return st
}

func trialRunning(user *models.User) bool {
	return user != nil && user.TrialActive &&
		user.TrialEndDate != nil && user.TrialEndDate.After(time.Now().UTC())
}

// StartTrial opens the account's one trial window. Accounts that already
// have entitlement, or have used their trial, are rejected.
func (s *subscriptionService) StartTrial(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: user '%s'", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to load user '%s' for trial start: %w", userID, err)
	}

	if user.AdminGrantedPremium || user.IsPremium || user.Subscription.IsActive() {
		return nil, ErrAlreadyPremium
	}
	if user.TrialEndDate != nil {
		return nil, ErrTrialAlreadyUsed
	}

	end := time.Now().UTC().AddDate(0, 0, s.trialDays)
	if err := s.userRepo.SetTrial(ctx, userID, true, &end); err != nil {
		return nil, fmt.Errorf("failed to start trial for user '%s': %w", userID, err)
	}
	user.TrialActive = true
	user.TrialEndDate = &end

	if s.audit != nil {
		s.audit.Record(ctx, models.AuditActionTrialStarted, userID, userID, "")
	}
	if s.mailer != nil && user.Email != "" {
		recipient, name := user.Email, user.DisplayName
		go func() {
			body := fmt.Sprintf("<p>Hi %s,</p><p>Your PetPulse premium trial is active until %s.</p>",
				name, end.Format("January 2, 2006"))
			if err := s.mailer.Send(recipient, "Your PetPulse trial has started", body); err != nil {
				s.logger.Warn("failed to send trial start mail", zap.String("userId", userID), zap.Error(err))
			}
		}()
	}
	return user, nil
}

// CancelTrial ends a running trial. The trialEndDate is kept so the account
// cannot start another one.
func (s *subscriptionService) CancelTrial(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: user '%s'", ErrUserNotFound, userID)
		}
		return fmt.Errorf("failed to load user '%s' for trial cancel: %w", userID, err)
	}
	if !user.TrialActive {
		return ErrNoActiveTrial
	}
	if err := s.userRepo.SetTrial(ctx, userID, false, nil); err != nil {
		return fmt.Errorf("failed to cancel trial for user '%s': %w", userID, err)
	}
	if s.audit != nil {
		s.audit.Record(ctx, models.AuditActionTrialCanceled, userID, userID, "")
	}
	return nil
}

// loggingNotifier is the ReconciliationNotifier used when no message queue is
// configured: it records that a reconciliation was wanted and drops it.
type loggingNotifier struct {
	logger *zap.Logger
}

// NewLoggingNotifier returns a notifier that only logs.
func NewLoggingNotifier(logger *zap.Logger) ReconciliationNotifier {
	return &loggingNotifier{logger: logger}
}

func (n *loggingNotifier) ScheduleReconciliation(_ context.Context, userID string) error {
	n.logger.Info("reconciliation requested but no queue configured; dropping",
		zap.String("userId", userID))
	return nil
}
