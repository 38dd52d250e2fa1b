package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"petpulse-backend-go/internal/db"
	"petpulse-backend-go/internal/models"
)

func TestAddRecord(t *testing.T) {
	pet := &models.Pet{ID: "pet-1", OwnerID: "owner-1", SharedVetIDs: []string{"vet-1"}}

	t.Run("owner logs a weight metric", func(t *testing.T) {
		healthRepo := new(MockHealthRecordRepository)
		petRepo := new(MockPetRepository)
		svc := NewHealthService(healthRepo, petRepo, zap.NewNop())

		petRepo.On("GetByID", mock.Anything, "pet-1").Return(pet, nil)
		healthRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *models.HealthRecord) bool {
			return r.PetID == "pet-1" && r.Type == models.MetricWeight && r.Value == 12.5
		})).Return("rec-1", nil)

		record, err := svc.AddRecord(context.Background(), "owner-1", "pet-1", models.CreateHealthRecordRequest{
			Type:  models.MetricWeight,
			Value: 12.5,
			Unit:  "kg",
		})

		require.NoError(t, err)
		assert.False(t, record.RecordedAt.IsZero())
	})

	t.Run("explicit recordedAt is honored", func(t *testing.T) {
		healthRepo := new(MockHealthRecordRepository)
		petRepo := new(MockPetRepository)
		svc := NewHealthService(healthRepo, petRepo, zap.NewNop())

		when := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		petRepo.On("GetByID", mock.Anything, "pet-1").Return(pet, nil)
		healthRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *models.HealthRecord) bool {
			return r.RecordedAt.Equal(when)
		})).Return("rec-2", nil)

		_, err := svc.AddRecord(context.Background(), "owner-1", "pet-1", models.CreateHealthRecordRequest{
			Type:       models.MetricSleep,
			Value:      8,
			RecordedAt: &when,
		})
		require.NoError(t, err)
	})

	t.Run("unknown metric type is rejected", func(t *testing.T) {
		svc := NewHealthService(new(MockHealthRecordRepository), new(MockPetRepository), zap.NewNop())

		_, err := svc.AddRecord(context.Background(), "owner-1", "pet-1", models.CreateHealthRecordRequest{
			Type: "mood",
		})
		assert.ErrorIs(t, err, ErrInvalidMetricType)
	})

	t.Run("shared vet cannot write", func(t *testing.T) {
		healthRepo := new(MockHealthRecordRepository)
		petRepo := new(MockPetRepository)
		svc := NewHealthService(healthRepo, petRepo, zap.NewNop())

		petRepo.On("GetByID", mock.Anything, "pet-1").Return(pet, nil)

		_, err := svc.AddRecord(context.Background(), "vet-1", "pet-1", models.CreateHealthRecordRequest{
			Type: models.MetricWeight,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
		healthRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestListRecords(t *testing.T) {
	pet := &models.Pet{ID: "pet-1", OwnerID: "owner-1", SharedVetIDs: []string{"vet-1"}}

	t.Run("shared vet can read", func(t *testing.T) {
		healthRepo := new(MockHealthRecordRepository)
		petRepo := new(MockPetRepository)
		svc := NewHealthService(healthRepo, petRepo, zap.NewNop())

		petRepo.On("GetByID", mock.Anything, "pet-1").Return(pet, nil)
		healthRepo.On("ListByPet", mock.Anything, "pet-1", mock.Anything).
			Return([]*models.HealthRecord{{ID: "rec-1", Type: models.MetricWeight}}, nil)

		records, err := svc.ListRecords(context.Background(), "vet-1", "pet-1", models.ListHealthRecordsQuery{})
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		petRepo := new(MockPetRepository)
		svc := NewHealthService(new(MockHealthRecordRepository), petRepo, zap.NewNop())

		petRepo.On("GetByID", mock.Anything, "pet-1").Return(pet, nil)

		_, err := svc.ListRecords(context.Background(), "stranger", "pet-1", models.ListHealthRecordsQuery{})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("bad type filter is rejected", func(t *testing.T) {
		svc := NewHealthService(new(MockHealthRecordRepository), new(MockPetRepository), zap.NewNop())

		_, err := svc.ListRecords(context.Background(), "owner-1", "pet-1", models.ListHealthRecordsQuery{Type: "bogus"})
		assert.ErrorIs(t, err, ErrInvalidMetricType)
	})
}

func TestDeleteRecord(t *testing.T) {
	pet := &models.Pet{ID: "pet-1", OwnerID: "owner-1"}

	t.Run("owner deletes a record", func(t *testing.T) {
		healthRepo := new(MockHealthRecordRepository)
		petRepo := new(MockPetRepository)
		svc := NewHealthService(healthRepo, petRepo, zap.NewNop())

		petRepo.On("GetByID", mock.Anything, "pet-1").Return(pet, nil)
		healthRepo.On("GetByID", mock.Anything, "pet-1", "rec-1").
			Return(&models.HealthRecord{ID: "rec-1"}, nil)
		healthRepo.On("Delete", mock.Anything, "pet-1", "rec-1").Return(nil)

		err := svc.DeleteRecord(context.Background(), "owner-1", "pet-1", "rec-1")
		require.NoError(t, err)
	})

	t.Run("missing record", func(t *testing.T) {
		healthRepo := new(MockHealthRecordRepository)
		petRepo := new(MockPetRepository)
		svc := NewHealthService(healthRepo, petRepo, zap.NewNop())

		petRepo.On("GetByID", mock.Anything, "pet-1").Return(pet, nil)
		healthRepo.On("GetByID", mock.Anything, "pet-1", "ghost").Return(nil, db.ErrNotFound)

		err := svc.DeleteRecord(context.Background(), "owner-1", "pet-1", "ghost")
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})
}
