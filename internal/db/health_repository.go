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

const recordsSubcollection = "records"

// firestoreHealthRepository stores health records in a subcollection under
// each pet document: pets/{petId}/records/{recordId}.
type firestoreHealthRepository struct {
	client *firestore.Client
}

// NewFirestoreHealthRepository creates a new instance of firestoreHealthRepository.
func NewFirestoreHealthRepository(client *firestore.Client) HealthRecordRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for HealthRecordRepository.")
	}
	return &firestoreHealthRepository{client: client}
}

func (r *firestoreHealthRepository) records(petID string) *firestore.CollectionRef {
	return r.client.Collection(petsCollection).Doc(petID).Collection(recordsSubcollection)
}

// Create adds a health record under its pet and returns the generated ID.
func (r *firestoreHealthRepository) Create(ctx context.Context, record *models.HealthRecord) (string, error) {
	if record.PetID == "" {
		return "", errors.New("record petID cannot be empty for Create operation")
	}
	docRef := r.records(record.PetID).NewDoc()
	if _, err := docRef.Create(ctx, record); err != nil {
		return "", fmt.Errorf("failed to create health record for pet '%s': %w", record.PetID, err)
	}
	record.ID = docRef.ID
	return docRef.ID, nil
}

// GetByID retrieves a single health record.
func (r *firestoreHealthRepository) GetByID(ctx context.Context, petID, recordID string) (*models.HealthRecord, error) {
	if petID == "" || recordID == "" {
		return nil, errors.New("petID and recordID cannot be empty for GetByID operation")
	}
	docSnap, err := r.records(petID).Doc(recordID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("health record '%s' for pet '%s' not found: %w", recordID, petID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get health record '%s' for pet '%s': %w", recordID, petID, err)
	}

	var record models.HealthRecord
	if err := docSnap.DataTo(&record); err != nil {
		return nil, fmt.Errorf("failed to decode health record '%s': %w", recordID, err)
	}
	record.ID = docSnap.Ref.ID
	return &record, nil
}

// ListByPet returns records for a pet, newest first, honoring the optional
// type and time-range filters.
func (r *firestoreHealthRepository) ListByPet(ctx context.Context, petID string, query models.ListHealthRecordsQuery) ([]*models.HealthRecord, error) {
	if petID == "" {
		return nil, errors.New("petID cannot be empty for ListByPet operation")
	}
	q := r.records(petID).Query
	if query.Type != "" {
		q = q.Where("type", "==", query.Type)
	}
	if query.Since != nil {
		q = q.Where("recordedAt", ">=", *query.Since)
	}
	if query.Until != nil {
		q = q.Where("recordedAt", "<=", *query.Until)
	}
	q = q.OrderBy("recordedAt", firestore.Desc)
	if query.Limit > 0 {
		q = q.Limit(query.Limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var records []*models.HealthRecord
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list health records for pet '%s': %w", petID, err)
		}
		var record models.HealthRecord
		if err := docSnap.DataTo(&record); err != nil {
			return nil, fmt.Errorf("failed to decode health record '%s': %w", docSnap.Ref.ID, err)
		}
		record.ID = docSnap.Ref.ID
		records = append(records, &record)
	}
	return records, nil
}

// Delete removes a single health record.
func (r *firestoreHealthRepository) Delete(ctx context.Context, petID, recordID string) error {
	if petID == "" || recordID == "" {
		return errors.New("petID and recordID cannot be empty for Delete operation")
	}
	_, err := r.records(petID).Doc(recordID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete health record '%s' for pet '%s': %w", recordID, petID, err)
	}
	return nil
}

// DeleteByPet removes all records under a pet. Used when the pet itself is
// deleted; subcollections are not removed automatically by Firestore.
func (r *firestoreHealthRepository) DeleteByPet(ctx context.Context, petID string) error {
	if petID == "" {
		return errors.New("petID cannot be empty for DeleteByPet operation")
	}
	iter := r.records(petID).Documents(ctx)
	defer iter.Stop()

	batch := r.client.Batch()
	n := 0
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to iterate health records for pet '%s': %w", petID, err)
		}
		batch.Delete(docSnap.Ref)
		n++
		// Firestore batches cap at 500 writes.
		if n == 500 {
			if _, err := batch.Commit(ctx); err != nil {
				return fmt.Errorf("failed to delete health records for pet '%s': %w", petID, err)
			}
			batch = r.client.Batch()
			n = 0
		}
	}
	if n > 0 {
		if _, err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("failed to delete health records for pet '%s': %w", petID, err)
		}
	}
	return nil
}
