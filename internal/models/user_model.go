package models

import "time"

// Roles a user account can hold. Veterinarians see pets shared with them;
// admins manage accounts and can grant premium manually.
const (
	RoleOwner = "owner"
	RoleVet   = "vet"
	RoleAdmin = "admin"
)

// User represents a PetPulse account. The document ID is the Firebase Auth UID.
type User struct {
	ID          string `json:"id" firestore:"-"`
	Email       string `json:"email" firestore:"email"`
	DisplayName string `json:"displayName,omitempty" firestore:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty" firestore:"photoURL,omitempty"`
	Role        string `json:"role" firestore:"role"`

	// IsPremium is a convenience flag kept in sync with Subscription on each
	// successful live billing lookup. It can be stale relative to Subscription.
	IsPremium bool `json:"isPremium" firestore:"isPremium"`

	// AdminGrantedPremium is set exclusively by an administrator and overrides
	// every other entitlement source.
	AdminGrantedPremium bool `json:"adminGrantedPremium" firestore:"adminGrantedPremium"`

	// Subscription mirrors the Stripe subscription object. It is written back
	// only as a side effect of a live billing lookup or a webhook event.
	Subscription *SubscriptionRecord `json:"subscription,omitempty" firestore:"subscription,omitempty"`

	TrialActive  bool       `json:"trialActive" firestore:"trialActive"`
	TrialEndDate *time.Time `json:"trialEndDate,omitempty" firestore:"trialEndDate,omitempty"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// IsAdmin reports whether the account has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
