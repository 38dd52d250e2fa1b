package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"petpulse-backend-go/internal/models"
)

const usersCollection = "users"

// ErrNotFound is returned when a document is not found in Firestore.
var ErrNotFound = errors.New("document not found")

// firestoreUserRepository implements the UserRepository interface using Firestore.
type firestoreUserRepository struct {
	client *firestore.Client
}

// NewFirestoreUserRepository creates a new instance of firestoreUserRepository.
func NewFirestoreUserRepository(client *firestore.Client) UserRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for UserRepository.")
	}
	return &firestoreUserRepository{client: client}
}

// Create adds a new user document. The user ID (Firebase Auth UID) is used as
// the Firestore document ID.
func (r *firestoreUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		return errors.New("user ID cannot be empty for Create operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(user.ID).Create(ctx, user)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("user with ID '%s' already exists: %w", user.ID, err)
		}
		return fmt.Errorf("failed to create user with ID '%s': %w", user.ID, err)
	}
	return nil
}

// GetByID retrieves a user document by its ID (Firebase Auth UID).
func (r *firestoreUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("user with ID '%s' not found: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user with ID '%s': %w", userID, err)
	}

	var user models.User
	if err := docSnap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user data for ID '%s': %w", userID, err)
	}
	user.ID = docSnap.Ref.ID

	return &user, nil
}

// GetByEmail retrieves a user document by its email field. Exact match, first
// result wins.
func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, errors.New("email cannot be empty for GetByEmail operation")
	}
	iter := r.client.Collection(usersCollection).
		Where("email", "==", email).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	docSnap, err := iter.Next()
	if err == iterator.Done {
		return nil, fmt.Errorf("user with email '%s' not found: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by email '%s': %w", email, err)
	}

	var user models.User
	if err := docSnap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user data for email '%s': %w", email, err)
	}
	user.ID = docSnap.Ref.ID

	return &user, nil
}

// GetByStripeCustomerID retrieves the user whose cached subscription mirror
// references the given Stripe customer.
func (r *firestoreUserRepository) GetByStripeCustomerID(ctx context.Context, customerID string) (*models.User, error) {
	if customerID == "" {
		return nil, errors.New("customerID cannot be empty for GetByStripeCustomerID operation")
	}
	iter := r.client.Collection(usersCollection).
		Where("subscription.customerId", "==", customerID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	docSnap, err := iter.Next()
	if err == iterator.Done {
		return nil, fmt.Errorf("user with customer ID '%s' not found: %w", customerID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by customer ID '%s': %w", customerID, err)
	}

	var user models.User
	if err := docSnap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user data for customer ID '%s': %w", customerID, err)
	}
	user.ID = docSnap.Ref.ID

	return &user, nil
}

// Update replaces an existing user document using Set with MergeAll, so a
// struct carrying the full fetched state is written back as-is.
func (r *firestoreUserRepository) Update(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		return errors.New("user ID cannot be empty for Update operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(user.ID).Set(ctx, user, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update user with ID '%s': %w", user.ID, err)
	}
	return nil
}

// List returns up to limit user documents ordered by creation time.
func (r *firestoreUserRepository) List(ctx context.Context, limit int) ([]*models.User, error) {
	if limit <= 0 {
		limit = 100
	}
	iter := r.client.Collection(usersCollection).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var users []*models.User
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		var user models.User
		if err := docSnap.DataTo(&user); err != nil {
			return nil, fmt.Errorf("failed to decode user data for ID '%s': %w", docSnap.Ref.ID, err)
		}
		user.ID = docSnap.Ref.ID
		users = append(users, &user)
	}
	return users, nil
}

// SetSubscription writes the subscription mirror and isPremium flag as a
// partial update. The rest of the document is untouched, so concurrent
// profile edits are not clobbered.
func (r *firestoreUserRepository) SetSubscription(ctx context.Context, userID string, sub *models.SubscriptionRecord, isPremium bool) error {
	if userID == "" {
		return errors.New("userID cannot be empty for SetSubscription operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(userID).Update(ctx, []firestore.Update{
		{Path: "subscription", Value: sub},
		{Path: "isPremium", Value: isPremium},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("user with ID '%s' not found: %w", userID, ErrNotFound)
		}
		return fmt.Errorf("failed to set subscription for user '%s': %w", userID, err)
	}
	return nil
}

// ClearSubscription removes the cached mirror and clears isPremium.
func (r *firestoreUserRepository) ClearSubscription(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("userID cannot be empty for ClearSubscription operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(userID).Update(ctx, []firestore.Update{
		{Path: "subscription", Value: firestore.Delete},
		{Path: "isPremium", Value: false},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("user with ID '%s' not found: %w", userID, ErrNotFound)
		}
		return fmt.Errorf("failed to clear subscription for user '%s': %w", userID, err)
	}
	return nil
}

// SetPremiumGrant toggles the admin-granted premium flag.
func (r *firestoreUserRepository) SetPremiumGrant(ctx context.Context, userID string, granted bool) error {
	if userID == "" {
		return errors.New("userID cannot be empty for SetPremiumGrant operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(userID).Update(ctx, []firestore.Update{
		{Path: "adminGrantedPremium", Value: granted},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("user with ID '%s' not found: %w", userID, ErrNotFound)
		}
		return fmt.Errorf("failed to set premium grant for user '%s': %w", userID, err)
	}
	return nil
}

// SetTrial writes the trial window fields.
func (r *firestoreUserRepository) SetTrial(ctx context.Context, userID string, active bool, endDate *time.Time) error {
	if userID == "" {
		return errors.New("userID cannot be empty for SetTrial operation")
	}
	updates := []firestore.Update{
		{Path: "trialActive", Value: active},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	}
	if endDate != nil {
		updates = append(updates, firestore.Update{Path: "trialEndDate", Value: *endDate})
	}
	_, err := r.client.Collection(usersCollection).Doc(userID).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("user with ID '%s' not found: %w", userID, ErrNotFound)
		}
		return fmt.Errorf("failed to set trial for user '%s': %w", userID, err)
	}
	return nil
}
