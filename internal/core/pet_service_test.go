package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"petpulse-backend-go/internal/db"
	"petpulse-backend-go/internal/models"
)

func newTestPetService(petRepo *MockPetRepository, userRepo *MockUserRepository, healthRepo *MockHealthRecordRepository, subs *MockSubscriptionService) PetService {
	return NewPetService(petRepo, userRepo, healthRepo, subs, 2, zap.NewNop())
}

func TestCreatePet(t *testing.T) {
	req := models.CreatePetRequest{Name: "Rex", Species: "dog"}

	t.Run("free account under the cap", func(t *testing.T) {
		petRepo := new(MockPetRepository)
		subs := new(MockSubscriptionService)
		svc := newTestPetService(petRepo, new(MockUserRepository), new(MockHealthRecordRepository), subs)

		subs.On("Resolve", mock.Anything, "owner-1", "").
			Return(models.SubscriptionStatus{Plan: models.PlanFree})
		petRepo.On("CountByOwner", mock.Anything, "owner-1").Return(1, nil)
		petRepo.On("Create", mock.Anything, mock.Anything).Return("pet-1", nil)

		pet, err := svc.CreatePet(context.Background(), "owner-1", req)
		require.NoError(t, err)
		assert.Equal(t, "owner-1", pet.OwnerID)
		assert.Equal(t, "Rex", pet.Name)
	})

	t.Run("free account at the cap is rejected", func(t *testing.T) {
		petRepo := new(MockPetRepository)
		subs := new(MockSubscriptionService)
		svc := newTestPetService(petRepo, new(MockUserRepository), new(MockHealthRecordRepository), subs)

		subs.On("Resolve", mock.Anything, "owner-1", "").
			Return(models.SubscriptionStatus{Plan: models.PlanFree})
		petRepo.On("CountByOwner", mock.Anything, "owner-1").Return(2, nil)

		_, err := svc.CreatePet(context.Background(), "owner-1", req)
		assert.ErrorIs(t, err, ErrPetLimitReached)
		petRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("active entitlement lifts the cap", func(t *testing.T) {
		petRepo := new(MockPetRepository)
		subs := new(MockSubscriptionService)
		svc := newTestPetService(petRepo, new(MockUserRepository), new(MockHealthRecordRepository), subs)

		subs.On("Resolve", mock.Anything, "owner-1", "").
			Return(models.SubscriptionStatus{IsActive: true, Plan: models.PlanMonthly})
		petRepo.On("Create", mock.Anything, mock.Anything).Return("pet-9", nil)

		_, err := svc.CreatePet(context.Background(), "owner-1", req)
		require.NoError(t, err)
		petRepo.AssertNotCalled(t, "CountByOwner", mock.Anything, mock.Anything)
	})
}

func TestGetPet(t *testing.T) {
	pet := &models.Pet{ID: "pet-1", OwnerID: "owner-1", SharedVetIDs: []string{"vet-1"}}

	t.Run("owner sees the pet", func(t *testing.T) {
		petRepo := new(MockPetRepository)
		svc := newTestPetService(petRepo, new(MockUserRepository), new(MockHealthRecordRepository), new(MockSubscriptionService))
		petRepo.On("GetByID", mock.Anything, "pet-1").Return(pet, nil)

		got, err := svc.GetPet(context.Background(), "owner-1", "pet-1")
		require.NoError(t, err)
		assert.Equal(t, "pet-1", got.ID)
	})

	t.Run("shared vet sees the pet", func(t *testing.T) {
		petRepo := new(MockPetRepository)
		svc := newTestPetService(petRepo, new(MockUserRepository), new(MockHealthRecordRepository), new(MockSubscriptionService))
		petRepo.On("GetByID", mock.Anything, "pet-1").Return(pet, nil)

		_, err := svc.GetPet(context.Background(), "vet-1", "pet-1")
		require.NoError(t, err)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		petRepo := new(MockPetRepository)
		svc := newTestPetService(petRepo, new(MockUserRepository), new(MockHealthRecordRepository), new(MockSubscriptionService))
		petRepo.On("GetByID", mock.Anything, "pet-1").Return(pet, nil)

		_, err := svc.GetPet(context.Background(), "stranger", "pet-1")
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("missing pet", func(t *testing.T) {
		petRepo := new(MockPetRepository)
		svc := newTestPetService(petRepo, new(MockUserRepository), new(MockHealthRecordRepository), new(MockSubscriptionService))
		petRepo.On("GetByID", mock.Anything, "ghost").Return(nil, db.ErrNotFound)

		_, err := svc.GetPet(context.Background(), "owner-1", "ghost")
		assert.ErrorIs(t, err, ErrPetNotFound)
	})
}

func TestShareWithVet(t *testing.T) {
	t.Run("shares with a vet account", func(t *testing.T) {
		petRepo := new(MockPetRepository)
		userRepo := new(MockUserRepository)
		svc := newTestPetService(petRepo, userRepo, new(MockHealthRecordRepository), new(MockSubscriptionService))

		petRepo.On("GetByID", mock.Anything, "pet-1").
			Return(&models.Pet{ID: "pet-1", OwnerID: "owner-1"}, nil)
		userRepo.On("GetByEmail", mock.Anything, "vet@example.com").
			Return(&models.User{ID: "vet-1", Role: models.RoleVet}, nil)
		petRepo.On("Update", mock.Anything, mock.MatchedBy(func(p *models.Pet) bool {
			return p.SharedWith("vet-1")
		})).Return(nil)

		err := svc.ShareWithVet(context.Background(), "owner-1", "pet-1", "vet@example.com")
		require.NoError(t, err)
	})

	t.Run("rejects non-vet accounts", func(t *testing.T) {
		petRepo := new(MockPetRepository)
		userRepo := new(MockUserRepository)
		svc := newTestPetService(petRepo, userRepo, new(MockHealthRecordRepository), new(MockSubscriptionService))

		petRepo.On("GetByID", mock.Anything, "pet-1").
			Return(&models.Pet{ID: "pet-1", OwnerID: "owner-1"}, nil)
		userRepo.On("GetByEmail", mock.Anything, "friend@example.com").
			Return(&models.User{ID: "user-2", Role: models.RoleOwner}, nil)

		err := svc.ShareWithVet(context.Background(), "owner-1", "pet-1", "friend@example.com")
		assert.ErrorIs(t, err, ErrNotAVet)
		petRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("sharing twice is a no-op", func(t *testing.T) {
		petRepo := new(MockPetRepository)
		userRepo := new(MockUserRepository)
		svc := newTestPetService(petRepo, userRepo, new(MockHealthRecordRepository), new(MockSubscriptionService))

		petRepo.On("GetByID", mock.Anything, "pet-1").
			Return(&models.Pet{ID: "pet-1", OwnerID: "owner-1", SharedVetIDs: []string{"vet-1"}}, nil)
		userRepo.On("GetByEmail", mock.Anything, "vet@example.com").
			Return(&models.User{ID: "vet-1", Role: models.RoleVet}, nil)

		err := svc.ShareWithVet(context.Background(), "owner-1", "pet-1", "vet@example.com")
		require.NoError(t, err)
		petRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("only the owner can share", func(t *testing.T) {
		petRepo := new(MockPetRepository)
		svc := newTestPetService(petRepo, new(MockUserRepository), new(MockHealthRecordRepository), new(MockSubscriptionService))

		petRepo.On("GetByID", mock.Anything, "pet-1").
			Return(&models.Pet{ID: "pet-1", OwnerID: "owner-1"}, nil)

		err := svc.ShareWithVet(context.Background(), "not-owner", "pet-1", "vet@example.com")
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestRemoveVetShare(t *testing.T) {
	petRepo := new(MockPetRepository)
	svc := newTestPetService(petRepo, new(MockUserRepository), new(MockHealthRecordRepository), new(MockSubscriptionService))

	petRepo.On("GetByID", mock.Anything, "pet-1").
		Return(&models.Pet{ID: "pet-1", OwnerID: "owner-1", SharedVetIDs: []string{"vet-1", "vet-2"}}, nil)
	petRepo.On("Update", mock.Anything, mock.MatchedBy(func(p *models.Pet) bool {
		return !p.SharedWith("vet-1") && p.SharedWith("vet-2")
	})).Return(nil)

	err := svc.RemoveVetShare(context.Background(), "owner-1", "pet-1", "vet-1")
	require.NoError(t, err)
}

func TestDeletePet(t *testing.T) {
	t.Run("deletes pet and its records", func(t *testing.T) {
		petRepo := new(MockPetRepository)
		healthRepo := new(MockHealthRecordRepository)
		svc := newTestPetService(petRepo, new(MockUserRepository), healthRepo, new(MockSubscriptionService))

		petRepo.On("GetByID", mock.Anything, "pet-1").
			Return(&models.Pet{ID: "pet-1", OwnerID: "owner-1"}, nil)
		healthRepo.On("DeleteByPet", mock.Anything, "pet-1").Return(nil)
		petRepo.On("Delete", mock.Anything, "pet-1").Return(nil)

		err := svc.DeletePet(context.Background(), "owner-1", "pet-1")
		require.NoError(t, err)
		healthRepo.AssertCalled(t, "DeleteByPet", mock.Anything, "pet-1")
	})

	t.Run("record cleanup failure does not block deletion", func(t *testing.T) {
		petRepo := new(MockPetRepository)
		healthRepo := new(MockHealthRecordRepository)
		svc := newTestPetService(petRepo, new(MockUserRepository), healthRepo, new(MockSubscriptionService))

		petRepo.On("GetByID", mock.Anything, "pet-1").
			Return(&models.Pet{ID: "pet-1", OwnerID: "owner-1"}, nil)
		healthRepo.On("DeleteByPet", mock.Anything, "pet-1").Return(assert.AnError)
		petRepo.On("Delete", mock.Anything, "pet-1").Return(nil)

		err := svc.DeletePet(context.Background(), "owner-1", "pet-1")
		require.NoError(t, err)
	})
}
