// Package billing implements the billing-provider contract against the
// Stripe API.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/customer"
	"github.com/stripe/stripe-go/v79/subscription"

	"petpulse-backend-go/internal/core"
)

// Init wires the Stripe API key. Must be called once at startup before any
// Stripe operation.
func Init(secretKey string) {
	stripe.Key = secretKey
}

// stripeProvider implements core.BillingProvider using the package-level
// Stripe client, which relies on stripe.Key having been set by Init.
type stripeProvider struct{}

// NewStripeProvider creates a Stripe-backed BillingProvider.
func NewStripeProvider() core.BillingProvider {
	return &stripeProvider{}
}

// FindCustomerByEmail returns the first Stripe customer with the given
// email, or (nil, nil) when none exists.
func (p *stripeProvider) FindCustomerByEmail(ctx context.Context, email string) (*core.BillingCustomer, error) {
	params := &stripe.CustomerListParams{
		Email: stripe.String(email),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(1)

	it := customer.List(params)
	for it.Next() {
		c := it.Customer()
		return &core.BillingCustomer{ID: c.ID, Email: c.Email}, nil
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("stripe customer list failed for email '%s': %w", email, err)
	}
	return nil, nil
}

// ActiveSubscription returns the customer's first active subscription, or
// (nil, nil) when none exists.
func (p *stripeProvider) ActiveSubscription(ctx context.Context, customerID string) (*core.BillingSubscription, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String(string(stripe.SubscriptionStatusActive)),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(1)

	it := subscription.List(params)
	for it.Next() {
		s := it.Subscription()
		priceID := ""
		if s.Items != nil && len(s.Items.Data) > 0 && s.Items.Data[0].Price != nil {
			priceID = s.Items.Data[0].Price.ID
		}
		return &core.BillingSubscription{
			ID:                s.ID,
			Status:            string(s.Status),
			PriceID:           priceID,
			CurrentPeriodEnd:  time.Unix(s.CurrentPeriodEnd, 0).UTC(),
			CancelAtPeriodEnd: s.CancelAtPeriodEnd,
		}, nil
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("stripe subscription list failed for customer '%s': %w", customerID, err)
	}
	return nil, nil
}
