package db

import (
	"context"
	"time"

	"petpulse-backend-go/internal/models"
)

// UserRepository defines the interface for user account storage.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByStripeCustomerID finds the account whose cached subscription
	// mirror references the given Stripe customer. Used by webhook handling,
	// where events carry customer IDs rather than user IDs.
	GetByStripeCustomerID(ctx context.Context, customerID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, limit int) ([]*models.User, error)

	// SetSubscription writes the cached subscription mirror and the isPremium
	// convenience flag as a partial update. It is the write-back half of a
	// live billing lookup.
	SetSubscription(ctx context.Context, userID string, sub *models.SubscriptionRecord, isPremium bool) error
	// ClearSubscription removes the cached mirror and clears isPremium.
	ClearSubscription(ctx context.Context, userID string) error
	SetPremiumGrant(ctx context.Context, userID string, granted bool) error
	SetTrial(ctx context.Context, userID string, active bool, endDate *time.Time) error
}

// PetRepository defines the interface for pet profile storage.
type PetRepository interface {
	Create(ctx context.Context, pet *models.Pet) (string, error)
	GetByID(ctx context.Context, petID string) (*models.Pet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Pet, error)
	ListSharedWithVet(ctx context.Context, vetID string) ([]*models.Pet, error)
	Update(ctx context.Context, pet *models.Pet) error
	Delete(ctx context.Context, petID string) error
	CountByOwner(ctx context.Context, ownerID string) (int, error)
}

// HealthRecordRepository defines the interface for health metric storage.
type HealthRecordRepository interface {
	Create(ctx context.Context, record *models.HealthRecord) (string, error)
	GetByID(ctx context.Context, petID, recordID string) (*models.HealthRecord, error)
	ListByPet(ctx context.Context, petID string, query models.ListHealthRecordsQuery) ([]*models.HealthRecord, error)
	Delete(ctx context.Context, petID, recordID string) error
	DeleteByPet(ctx context.Context, petID string) error
}

// ForumRepository defines the interface for forum post and reply storage.
type ForumRepository interface {
	CreatePost(ctx context.Context, post *models.ForumPost) (string, error)
	GetPost(ctx context.Context, postID string) (*models.ForumPost, error)
	ListPosts(ctx context.Context, category string, limit int) ([]*models.ForumPost, error)
	DeletePost(ctx context.Context, postID string) error
	CreateReply(ctx context.Context, reply *models.ForumReply) (string, error)
	ListReplies(ctx context.Context, postID string) ([]*models.ForumReply, error)
}

// AuditRepository defines the interface for audit log storage.
type AuditRepository interface {
	Create(ctx context.Context, entry models.AuditLog) error
}
