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

func strPtr(s string) *string { return &s }

func TestGetOrCreate(t *testing.T) {
	t.Run("creates an owner profile on first login", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, nil, zap.NewNop())

		userRepo.On("GetByID", mock.Anything, "new-user").Return(nil, db.ErrNotFound)
		userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.ID == "new-user" && u.Role == models.RoleOwner && u.Email == "new@example.com"
		})).Return(nil)

		user, created, err := svc.GetOrCreate(context.Background(), "new-user", "new@example.com", "New User", "")

		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, models.RoleOwner, user.Role)
	})

	t.Run("returns the existing profile unchanged", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, nil, zap.NewNop())

		existing := &models.User{ID: "user-1", Role: models.RoleVet}
		userRepo.On("GetByID", mock.Anything, "user-1").Return(existing, nil)

		user, created, err := svc.GetOrCreate(context.Background(), "user-1", "x@example.com", "X", "")

		require.NoError(t, err)
		assert.False(t, created)
		assert.Same(t, existing, user)
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Run("applies non-nil fields", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, nil, zap.NewNop())

		userRepo.On("GetByID", mock.Anything, "user-1").
			Return(&models.User{ID: "user-1", DisplayName: "Old", Role: models.RoleOwner}, nil)
		userRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

		user, err := svc.UpdateProfile(context.Background(), "user-1", models.UpdateProfileRequest{
			DisplayName: strPtr("New Name"),
			Role:        strPtr(models.RoleVet),
		})

		require.NoError(t, err)
		assert.Equal(t, "New Name", user.DisplayName)
		assert.Equal(t, models.RoleVet, user.Role)
	})

	t.Run("rejects self-assigned admin role", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, nil, zap.NewNop())

		userRepo.On("GetByID", mock.Anything, "user-1").
			Return(&models.User{ID: "user-1", Role: models.RoleOwner}, nil)

		_, err := svc.UpdateProfile(context.Background(), "user-1", models.UpdateProfileRequest{
			Role: strPtr(models.RoleAdmin),
		})

		assert.ErrorIs(t, err, ErrInvalidRole)
		userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestListUsers(t *testing.T) {
	t.Run("admin can list", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, nil, zap.NewNop())

		userRepo.On("GetByID", mock.Anything, "admin-1").
			Return(&models.User{ID: "admin-1", Role: models.RoleAdmin}, nil)
		userRepo.On("List", mock.Anything, 50).
			Return([]*models.User{{ID: "a"}, {ID: "b"}}, nil)

		users, err := svc.ListUsers(context.Background(), "admin-1", 50)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("non-admin is rejected", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, nil, zap.NewNop())

		userRepo.On("GetByID", mock.Anything, "user-1").
			Return(&models.User{ID: "user-1", Role: models.RoleOwner}, nil)

		_, err := svc.ListUsers(context.Background(), "user-1", 50)
		assert.ErrorIs(t, err, ErrNotAdmin)
		userRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})
}

func TestSetPremiumGrant(t *testing.T) {
	t.Run("admin grants premium and audit is recorded", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		auditRepo := new(MockAuditRepository)
		svc := NewUserService(userRepo, NewAuditService(auditRepo, zap.NewNop()), zap.NewNop())

		userRepo.On("GetByID", mock.Anything, "admin-1").
			Return(&models.User{ID: "admin-1", Role: models.RoleAdmin}, nil)
		userRepo.On("SetPremiumGrant", mock.Anything, "target-1", true).Return(nil)
		auditRepo.On("Create", mock.Anything, mock.MatchedBy(func(e models.AuditLog) bool {
			return e.Action == models.AuditActionPremiumGranted && e.TargetID == "target-1"
		})).Return(nil)

		err := svc.SetPremiumGrant(context.Background(), "admin-1", "target-1", true)
		require.NoError(t, err)
		auditRepo.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("non-admin cannot grant", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, nil, zap.NewNop())

		userRepo.On("GetByID", mock.Anything, "user-1").
			Return(&models.User{ID: "user-1", Role: models.RoleVet}, nil)

		err := svc.SetPremiumGrant(context.Background(), "user-1", "target-1", true)
		assert.ErrorIs(t, err, ErrNotAdmin)
		userRepo.AssertNotCalled(t, "SetPremiumGrant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown target", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, nil, zap.NewNop())

		userRepo.On("GetByID", mock.Anything, "admin-1").
			Return(&models.User{ID: "admin-1", Role: models.RoleAdmin}, nil)
		userRepo.On("SetPremiumGrant", mock.Anything, "ghost", false).Return(db.ErrNotFound)

		err := svc.SetPremiumGrant(context.Background(), "admin-1", "ghost", false)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
