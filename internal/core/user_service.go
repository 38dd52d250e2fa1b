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
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotAdmin is returned when a non-admin calls an admin operation.
	ErrNotAdmin = errors.New("caller is not an administrator")
	// ErrInvalidRole is returned for a role outside the known set.
	ErrInvalidRole = errors.New("invalid role")
)

// userService implements the UserService interface.
type userService struct {
	userRepo db.UserRepository
	audit    AuditService
	logger   *zap.Logger
}

// NewUserService creates a new UserService instance.
func NewUserService(userRepo db.UserRepository, audit AuditService, logger *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		audit:    audit,
		logger:   logger,
	}
}

// GetOrCreate retrieves a user by ID, creating the account document on first
// login with the identity fields from the verified Firebase token. Returns
// the user and whether it was created.
func (s *userService) GetOrCreate(ctx context.Context, userID, email, displayName, photoURL string) (*models.User, bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			newUser := &models.User{
				ID:          userID,
				Email:       email,
				DisplayName: displayName,
				PhotoURL:    photoURL,
				Role:        models.RoleOwner,
				CreatedAt:   time.Now().UTC(),
				UpdatedAt:   time.Now().UTC(),
			}
			if createErr := s.userRepo.Create(ctx, newUser); createErr != nil {
				return nil, false, fmt.Errorf("failed to create user '%s' after not found: %w", userID, createErr)
			}
			return newUser, true, nil
		}
		return nil, false, fmt.Errorf("failed to get user '%s' from repository: %w", userID, err)
	}
	return user, false, nil
}

// GetByID retrieves a user by their ID.
func (s *userService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: user '%s'", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get user '%s' from repository: %w", userID, err)
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of the request to the account.
func (s *userService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.PhotoURL != nil {
		user.PhotoURL = *req.PhotoURL
	}
	if req.Role != nil {
		switch *req.Role {
		case models.RoleOwner, models.RoleVet:
			user.Role = *req.Role
		default:
			// The admin role is never self-assignable.
			return nil, fmt.Errorf("%w: %q", ErrInvalidRole, *req.Role)
		}
	}
	user.UpdatedAt = time.Now().UTC()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile for user '%s': %w", userID, err)
	}
	return user, nil
}

// ListUsers returns accounts for the admin dashboard.
func (s *userService) ListUsers(ctx context.Context, actorID string, limit int) ([]*models.User, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	users, err := s.userRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// SetPremiumGrant toggles the admin-granted premium flag on the target
// account and records the change in the audit log.
func (s *userService) SetPremiumGrant(ctx context.Context, actorID, targetID string, granted bool) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if err := s.userRepo.SetPremiumGrant(ctx, targetID, granted); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: user '%s'", ErrUserNotFound, targetID)
		}
		return fmt.Errorf("failed to set premium grant for user '%s': %w", targetID, err)
	}
	action := models.AuditActionPremiumGranted
	if !granted {
		action = models.AuditActionPremiumRevoked
	}
	if s.audit != nil {
		s.audit.Record(ctx, action, actorID, targetID, "")
	}
	return nil
}

func (s *userService) requireAdmin(ctx context.Context, actorID string) error {
	actor, err := s.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return ErrNotAdmin
	}
	return nil
}
