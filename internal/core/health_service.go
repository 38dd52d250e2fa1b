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
	// ErrInvalidMetricType is returned for a metric outside the known set.
	ErrInvalidMetricType = errors.New("invalid metric type")
	// ErrRecordNotFound is returned when a health record is not found.
	ErrRecordNotFound = errors.New("health record not found")
)

// healthService implements the HealthService interface. Access rules: the
// pet's owner reads and writes; a vet the pet is shared with reads only.
type healthService struct {
	healthRepo db.HealthRecordRepository
	petRepo    db.PetRepository
	logger     *zap.Logger
}

// NewHealthService creates a new HealthService instance.
func NewHealthService(healthRepo db.HealthRecordRepository, petRepo db.PetRepository, logger *zap.Logger) HealthService {
	return &healthService{
		healthRepo: healthRepo,
		petRepo:    petRepo,
		logger:     logger,
	}
}

// AddRecord logs a health metric for a pet. Owner only.
func (s *healthService) AddRecord(ctx context.Context, callerID, petID string, req models.CreateHealthRecordRequest) (*models.HealthRecord, error) {
	if !models.ValidMetricType(req.Type) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMetricType, req.Type)
	}
	pet, err := s.loadPet(ctx, petID)
	if err != nil {
		return nil, err
	}
	if pet.OwnerID != callerID {
		return nil, ErrAccessDenied
	}

	recordedAt := time.Now().UTC()
	if req.RecordedAt != nil {
		recordedAt = req.RecordedAt.UTC()
	}
	record := &models.HealthRecord{
		PetID:      petID,
		Type:       req.Type,
		Value:      req.Value,
		Unit:       req.Unit,
		Notes:      req.Notes,
		RecordedAt: recordedAt,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.healthRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create health record for pet '%s': %w", petID, err)
	}
	return record, nil
}

// ListRecords returns a pet's records for its owner or a shared vet.
func (s *healthService) ListRecords(ctx context.Context, callerID, petID string, query models.ListHealthRecordsQuery) ([]*models.HealthRecord, error) {
	if query.Type != "" && !models.ValidMetricType(query.Type) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMetricType, query.Type)
	}
	pet, err := s.loadPet(ctx, petID)
	if err != nil {
		return nil, err
	}
	if pet.OwnerID != callerID && !pet.SharedWith(callerID) {
		return nil, ErrAccessDenied
	}

	records, err := s.healthRepo.ListByPet(ctx, petID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list health records for pet '%s': %w", petID, err)
	}
	return records, nil
}

// DeleteRecord removes a single record. Owner only.
func (s *healthService) DeleteRecord(ctx context.Context, callerID, petID, recordID string) error {
	pet, err := s.loadPet(ctx, petID)
	if err != nil {
		return err
	}
	if pet.OwnerID != callerID {
		return ErrAccessDenied
	}
	if _, err := s.healthRepo.GetByID(ctx, petID, recordID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: record '%s'", ErrRecordNotFound, recordID)
		}
		return fmt.Errorf("failed to get health record '%s': %w", recordID, err)
	}
	if err := s.healthRepo.Delete(ctx, petID, recordID); err != nil {
		return fmt.Errorf("failed to delete health record '%s': %w", recordID, err)
	}
	return nil
}

func (s *healthService) loadPet(ctx context.Context, petID string) (*models.Pet, error) {
	pet, err := s.petRepo.GetByID(ctx, petID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: pet '%s'", ErrPetNotFound, petID)
		}
		return nil, fmt.Errorf("failed to get pet '%s': %w", petID, err)
	}
	return pet, nil
}
