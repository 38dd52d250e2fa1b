package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"petpulse-backend-go/internal/models"
)

const petsCollection = "pets"

// firestorePetRepository implements the PetRepository interface using Firestore.
type firestorePetRepository struct {
	client *firestore.Client
}

// NewFirestorePetRepository creates a new instance of firestorePetRepository.
func NewFirestorePetRepository(client *firestore.Client) PetRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for PetRepository.")
	}
	return &firestorePetRepository{client: client}
}

// Create adds a new pet document and returns its generated ID.
func (r *firestorePetRepository) Create(ctx context.Context, pet *models.Pet) (string, error) {
	if pet.OwnerID == "" {
		return "", errors.New("pet ownerID cannot be empty for Create operation")
	}
	docRef := r.client.Collection(petsCollection).NewDoc()
	if _, err := docRef.Create(ctx, pet); err != nil {
		return "", fmt.Errorf("failed to create pet for owner '%s': %w", pet.OwnerID, err)
	}
	pet.ID = docRef.ID
	return docRef.ID, nil
}

// GetByID retrieves a pet document by ID.
func (r *firestorePetRepository) GetByID(ctx context.Context, petID string) (*models.Pet, error) {
	if petID == "" {
		return nil, errors.New("petID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(petsCollection).Doc(petID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("pet with ID '%s' not found: %w", petID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get pet with ID '%s': %w", petID, err)
	}

	var pet models.Pet
	if err := docSnap.DataTo(&pet); err != nil {
		return nil, fmt.Errorf("failed to decode pet data for ID '%s': %w", petID, err)
	}
	pet.ID = docSnap.Ref.ID
	return &pet, nil
}

// ListByOwner returns all pets owned by the given user, newest first.
func (r *firestorePetRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Pet, error) {
	if ownerID == "" {
		return nil, errors.New("ownerID cannot be empty for ListByOwner operation")
	}
	iter := r.client.Collection(petsCollection).
		Where("ownerId", "==", ownerID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	return r.collect(iter, "owner", ownerID)
}

// ListSharedWithVet returns pets whose sharedVetIds contains the vet's user ID.
func (r *firestorePetRepository) ListSharedWithVet(ctx context.Context, vetID string) ([]*models.Pet, error) {
	if vetID == "" {
		return nil, errors.New("vetID cannot be empty for ListSharedWithVet operation")
	}
	iter := r.client.Collection(petsCollection).
		Where("sharedVetIds", "array-contains", vetID).
		Documents(ctx)
	return r.collect(iter, "vet", vetID)
}

func (r *firestorePetRepository) collect(iter *firestore.DocumentIterator, byKind, byID string) ([]*models.Pet, error) {
	defer iter.Stop()
	var pets []*models.Pet
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list pets by %s '%s': %w", byKind, byID, err)
		}
		var pet models.Pet
		if err := docSnap.DataTo(&pet); err != nil {
			return nil, fmt.Errorf("failed to decode pet data for ID '%s': %w", docSnap.Ref.ID, err)
		}
		pet.ID = docSnap.Ref.ID
		pets = append(pets, &pet)
	}
	return pets, nil
}

// Update replaces a pet document with the given state.
func (r *firestorePetRepository) Update(ctx context.Context, pet *models.Pet) error {
	if pet.ID == "" {
		return errors.New("pet ID cannot be empty for Update operation")
	}
	_, err := r.client.Collection(petsCollection).Doc(pet.ID).Set(ctx, pet, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update pet with ID '%s': %w", pet.ID, err)
	}
	return nil
}

// Delete removes a pet document.
func (r *firestorePetRepository) Delete(ctx context.Context, petID string) error {
	if petID == "" {
		return errors.New("petID cannot be empty for Delete operation")
	}
	_, err := r.client.Collection(petsCollection).Doc(petID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete pet with ID '%s': %w", petID, err)
	}
	return nil
}

// CountByOwner counts pets owned by the given user, used for free-plan limits.
func (r *firestorePetRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	if ownerID == "" {
		return 0, errors.New("ownerID cannot be empty for CountByOwner operation")
	}
	iter := r.client.Collection(petsCollection).
		Where("ownerId", "==", ownerID).
		Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to count pets for owner '%s': %w", ownerID, err)
		}
		count++
	}
	return count, nil
}
