package core

import (
	"context"
	"time"

	"petpulse-backend-go/internal/models"
)

// BillingCustomer is the slice of a billing-provider customer the resolver
// needs: the join key (email) and the provider-side ID.
type BillingCustomer struct {
	ID    string
	Email string
}

// BillingSubscription is the slice of a billing-provider subscription the
// resolver needs.
type BillingSubscription struct {
	ID                string
	Status            string
	PriceID           string
	CurrentPeriodEnd  time.Time
	CancelAtPeriodEnd bool
}

// BillingProvider is the consumed contract with the billing system (Stripe in
// production). Lookups are exact-match, first result wins.
type BillingProvider interface {
	// FindCustomerByEmail returns the first customer matching the email, or
	// (nil, nil) when none exists.
	FindCustomerByEmail(ctx context.Context, email string) (*BillingCustomer, error)
	// ActiveSubscription returns the customer's first subscription with
	// status=active, or (nil, nil) when none exists.
	ActiveSubscription(ctx context.Context, customerID string) (*BillingSubscription, error)
}

// ReconciliationNotifier schedules an out-of-band re-resolution of a user's
// subscription state. Implementations must not block on the actual work.
type ReconciliationNotifier interface {
	ScheduleReconciliation(ctx context.Context, userID string) error
}

// Mailer sends notification mail. Failures are logged and never surfaced to
// the user-facing code path that triggered the mail.
type Mailer interface {
	Send(recipient, subject, htmlBody string) error
}

// SubscriptionService resolves premium entitlement and manages trials.
type SubscriptionService interface {
	// Resolve determines the user's current entitlement. callerEmail is the
	// authenticated session's email when the caller resolves their own
	// status, and empty otherwise. Resolve never fails: any error degrades
	// to the free status.
	Resolve(ctx context.Context, userID, callerEmail string) models.SubscriptionStatus

	// Reconcile is the forced variant used by the reconciliation consumer:
	// it never trusts a bare isPremium flag and always proceeds to the live
	// billing lookup, repairing the cached mirror either way.
	Reconcile(ctx context.Context, userID string) models.SubscriptionStatus

	StartTrial(ctx context.Context, userID string) (*models.User, error)
	CancelTrial(ctx context.Context, userID string) error
}

// BillingService handles the Stripe-facing operations: checkout, customer
// portal, and webhook processing.
type BillingService interface {
	CreateCheckoutSession(ctx context.Context, userID string, plan models.Plan) (string, error)
	CreatePortalSession(ctx context.Context, userID string) (string, error)
	HandleStripeWebhook(ctx context.Context, signature string, payload []byte) error
}

// UserService defines user account operations, including the admin surface.
type UserService interface {
	GetOrCreate(ctx context.Context, userID, email, displayName, photoURL string) (*models.User, bool, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.User, error)

	ListUsers(ctx context.Context, actorID string, limit int) ([]*models.User, error)
	SetPremiumGrant(ctx context.Context, actorID, targetID string, granted bool) error
}

// PetService defines pet profile operations, including vet sharing.
type PetService interface {
	CreatePet(ctx context.Context, ownerID string, req models.CreatePetRequest) (*models.Pet, error)
	GetPet(ctx context.Context, callerID, petID string) (*models.Pet, error)
	ListPets(ctx context.Context, ownerID string) ([]*models.Pet, error)
	ListPetsSharedWithVet(ctx context.Context, vetID string) ([]*models.Pet, error)
	UpdatePet(ctx context.Context, ownerID, petID string, req models.UpdatePetRequest) (*models.Pet, error)
	DeletePet(ctx context.Context, ownerID, petID string) error
	ShareWithVet(ctx context.Context, ownerID, petID, vetEmail string) error
	RemoveVetShare(ctx context.Context, ownerID, petID, vetID string) error
}

// HealthService defines health metric logging and retrieval.
type HealthService interface {
	AddRecord(ctx context.Context, callerID, petID string, req models.CreateHealthRecordRequest) (*models.HealthRecord, error)
	ListRecords(ctx context.Context, callerID, petID string, query models.ListHealthRecordsQuery) ([]*models.HealthRecord, error)
	DeleteRecord(ctx context.Context, callerID, petID, recordID string) error
}

// ForumService defines community discussion operations.
type ForumService interface {
	CreatePost(ctx context.Context, author *models.User, req models.CreateForumPostRequest) (*models.ForumPost, error)
	GetPost(ctx context.Context, postID string) (*models.ForumPost, []*models.ForumReply, error)
	ListPosts(ctx context.Context, category string, limit int) ([]*models.ForumPost, error)
	DeletePost(ctx context.Context, caller *models.User, postID string) error
	CreateReply(ctx context.Context, author *models.User, postID string, req models.CreateForumReplyRequest) (*models.ForumReply, error)
}

// AuditService records entitlement-affecting changes.
type AuditService interface {
	Record(ctx context.Context, action, actorID, targetID, details string)
}
