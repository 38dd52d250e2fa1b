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
	// ErrPetNotFound is returned when a pet is not found.
	ErrPetNotFound = errors.New("pet not found")
	// ErrAccessDenied is returned when the caller may not act on the pet.
	ErrAccessDenied = errors.New("access denied")
	// ErrPetLimitReached is returned when a free account hits its pet cap.
	ErrPetLimitReached = errors.New("pet limit reached for free plan")
	// ErrNotAVet is returned when sharing targets an account without the vet role.
	ErrNotAVet = errors.New("target account is not a veterinarian")
)

// petService implements the PetService interface. Free accounts are capped
// at freePetCap pets; any resolved entitlement (subscription, trial, admin
// grant) lifts the cap.
type petService struct {
	petRepo    db.PetRepository
	userRepo   db.UserRepository
	healthRepo db.HealthRecordRepository
	subs       SubscriptionService
	freePetCap int
	logger     *zap.Logger
}

// NewPetService creates a new PetService instance.
func NewPetService(
	petRepo db.PetRepository,
	userRepo db.UserRepository,
	healthRepo db.HealthRecordRepository,
	subs SubscriptionService,
	freePetCap int,
	logger *zap.Logger,
) PetService {
	if freePetCap <= 0 {
		freePetCap = 2
	}
	return &petService{
		petRepo:    petRepo,
		userRepo:   userRepo,
		healthRepo: healthRepo,
		subs:       subs,
		freePetCap: freePetCap,
		logger:     logger,
	}
}

// CreatePet adds a pet profile, enforcing the free-plan cap.
func (s *petService) CreatePet(ctx context.Context, ownerID string, req models.CreatePetRequest) (*models.Pet, error) {
	status := s.subs.Resolve(ctx, ownerID, "")
	if !status.IsActive {
		count, err := s.petRepo.CountByOwner(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("failed to count pets for owner '%s': %w", ownerID, err)
		}
		if count >= s.freePetCap {
			return nil, ErrPetLimitReached
		}
	}

	pet := &models.Pet{
		OwnerID:   ownerID,
		Name:      req.Name,
		Species:   req.Species,
		Breed:     req.Breed,
		BirthDate: req.BirthDate,
		PhotoURL:  req.PhotoURL,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if _, err := s.petRepo.Create(ctx, pet); err != nil {
		return nil, fmt.Errorf("failed to create pet: %w", err)
	}
	return pet, nil
}

// GetPet returns a pet visible to the caller: its owner or a vet it has been
// shared with.
func (s *petService) GetPet(ctx context.Context, callerID, petID string) (*models.Pet, error) {
	pet, err := s.loadPet(ctx, petID)
	if err != nil {
		return nil, err
	}
	if pet.OwnerID != callerID && !pet.SharedWith(callerID) {
		return nil, ErrAccessDenied
	}
	return pet, nil
}

// ListPets returns all pets owned by the user.
func (s *petService) ListPets(ctx context.Context, ownerID string) ([]*models.Pet, error) {
	pets, err := s.petRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pets for owner '%s': %w", ownerID, err)
	}
	return pets, nil
}

// ListPetsSharedWithVet returns the pets shared with the calling vet.
func (s *petService) ListPetsSharedWithVet(ctx context.Context, vetID string) ([]*models.Pet, error) {
	pets, err := s.petRepo.ListSharedWithVet(ctx, vetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shared pets for vet '%s': %w", vetID, err)
	}
	return pets, nil
}

// UpdatePet applies the non-nil request fields. Owner only.
func (s *petService) UpdatePet(ctx context.Context, ownerID, petID string, req models.UpdatePetRequest) (*models.Pet, error) {
	pet, err := s.loadOwnedPet(ctx, ownerID, petID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		pet.Name = *req.Name
	}
	if req.Species != nil {
		pet.Species = *req.Species
	}
	if req.Breed != nil {
		pet.Breed = *req.Breed
	}
	if req.BirthDate != nil {
		pet.BirthDate = req.BirthDate
	}
	if req.PhotoURL != nil {
		pet.PhotoURL = *req.PhotoURL
	}
	pet.UpdatedAt = time.Now().UTC()
	if err := s.petRepo.Update(ctx, pet); err != nil {
		return nil, fmt.Errorf("failed to update pet '%s': %w", petID, err)
	}
	return pet, nil
}

// DeletePet removes the pet and its health records. Owner only.
func (s *petService) DeletePet(ctx context.Context, ownerID, petID string) error {
	if _, err := s.loadOwnedPet(ctx, ownerID, petID); err != nil {
		return err
	}
	if err := s.healthRepo.DeleteByPet(ctx, petID); err != nil {
		// The pet document is still removed; orphaned records are invisible
		// without their parent and can be swept later.
		s.logger.Warn("failed to delete health records for pet",
			zap.String("petId", petID), zap.Error(err))
	}
	if err := s.petRepo.Delete(ctx, petID); err != nil {
		return fmt.Errorf("failed to delete pet '%s': %w", petID, err)
	}
	return nil
}

// ShareWithVet shares a pet with a veterinarian account looked up by email.
func (s *petService) ShareWithVet(ctx context.Context, ownerID, petID, vetEmail string) error {
	pet, err := s.loadOwnedPet(ctx, ownerID, petID)
	if err != nil {
		return err
	}

	vet, err := s.userRepo.GetByEmail(ctx, vetEmail)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: no account for email '%s'", ErrUserNotFound, vetEmail)
		}
		return fmt.Errorf("failed to look up vet by email: %w", err)
	}
	if vet.Role != models.RoleVet {
		return ErrNotAVet
	}
	if pet.SharedWith(vet.ID) {
		return nil
	}

	pet.SharedVetIDs = append(pet.SharedVetIDs, vet.ID)
	pet.UpdatedAt = time.Now().UTC()
	if err := s.petRepo.Update(ctx, pet); err != nil {
		return fmt.Errorf("failed to share pet '%s' with vet '%s': %w", petID, vet.ID, err)
	}
	return nil
}

// RemoveVetShare revokes a vet's access to a pet.
func (s *petService) RemoveVetShare(ctx context.Context, ownerID, petID, vetID string) error {
	pet, err := s.loadOwnedPet(ctx, ownerID, petID)
	if err != nil {
		return err
	}
	kept := pet.SharedVetIDs[:0]
	for _, id := range pet.SharedVetIDs {
		if id != vetID {
			kept = append(kept, id)
		}
	}
	pet.SharedVetIDs = kept
	pet.UpdatedAt = time.Now().UTC()
	if err := s.petRepo.Update(ctx, pet); err != nil {
		return fmt.Errorf("failed to remove vet share on pet '%s': %w", petID, err)
	}
	return nil
}

func (s *petService) loadPet(ctx context.Context, petID string) (*models.Pet, error) {
	pet, err := s.petRepo.GetByID(ctx, petID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: pet '%s'", ErrPetNotFound, petID)
		}
		return nil, fmt.Errorf("failed to get pet '%s': %w", petID, err)
	}
	return pet, nil
}

func (s *petService) loadOwnedPet(ctx context.Context, ownerID, petID string) (*models.Pet, error) {
	pet, err := s.loadPet(ctx, petID)
	if err != nil {
		return nil, err
	}
	if pet.OwnerID != ownerID {
		return nil, ErrAccessDenied
	}
	return pet, nil
}
