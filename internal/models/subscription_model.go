package models

import "time"

// Plan identifies the tier an entitlement maps to.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanMonthly Plan = "monthly"
	PlanYearly  Plan = "yearly"
)

// PlanCatalog maps Stripe price IDs to plan tags. The catalog is built from
// configuration at startup; price IDs must never be compiled into resolution
// logic, or a price change in the Stripe dashboard silently breaks mapping.
type PlanCatalog map[string]Plan

// NewPlanCatalog builds a catalog from the configured monthly and yearly
// price IDs. Empty IDs are skipped.
func NewPlanCatalog(monthlyPriceID, yearlyPriceID string) PlanCatalog {
	c := PlanCatalog{}
	if monthlyPriceID != "" {
		c[monthlyPriceID] = PlanMonthly
	}
	if yearlyPriceID != "" {
		c[yearlyPriceID] = PlanYearly
	}
	return c
}

// PlanForPrice returns the plan for a price ID. Unknown IDs, including the
// empty string, map to the free plan.
func (c PlanCatalog) PlanForPrice(priceID string) Plan {
	if plan, ok := c[priceID]; ok {
		return plan
	}
	return PlanFree
}

// SubscriptionRecord is the cached mirror of a Stripe subscription, embedded
// in the user document. It is only ever derived from live billing data.
type SubscriptionRecord struct {
	ID                string     `json:"id" firestore:"id"`
	Status            string     `json:"status" firestore:"status"`
	PriceID           string     `json:"priceId" firestore:"priceId"`
	CurrentPeriodEnd  *time.Time `json:"currentPeriodEnd,omitempty" firestore:"currentPeriodEnd,omitempty"`
	CustomerID        string     `json:"customerId,omitempty" firestore:"customerId,omitempty"`
	CustomerEmail     string     `json:"customerEmail,omitempty" firestore:"customerEmail,omitempty"`
	CancelAtPeriodEnd bool       `json:"cancelAtPeriodEnd" firestore:"cancelAtPeriodEnd"`
	AdminGranted      bool       `json:"adminGranted" firestore:"adminGranted"`
	UpdatedAt         time.Time  `json:"updatedAt" firestore:"updatedAt"`
}

// IsActive reports whether the cached status still grants entitlement
// without a live billing lookup.
func (r *SubscriptionRecord) IsActive() bool {
	return r != nil && (r.Status == "active" || r.Status == "trialing")
}

// SubscriptionStatus is the resolved entitlement for a user, suitable for
// gating premium features. Every resolution terminates in a valid value;
// failures degrade to the free status rather than propagating.
type SubscriptionStatus struct {
	IsActive          bool       `json:"isActive"`
	Plan              Plan       `json:"plan"`
	ExpiresAt         *time.Time `json:"expiresAt,omitempty"`
	SubscriptionID    string     `json:"subscriptionId,omitempty"`
	IsTrialActive     bool       `json:"isTrialActive"`
	TrialEndDate      *time.Time `json:"trialEndDate,omitempty"`
	CancelAtPeriodEnd bool       `json:"cancelAtPeriodEnd"`
	AdminGranted      bool       `json:"adminGranted"`
}
