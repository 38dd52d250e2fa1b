package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"petpulse-backend-go/internal/core"
	"petpulse-backend-go/internal/models"
)

// PetHandler handles pet profile endpoints, including vet sharing.
type PetHandler struct {
	petService core.PetService
}

// NewPetHandler creates a new PetHandler.
func NewPetHandler(ps core.PetService) *PetHandler {
	return &PetHandler{petService: ps}
}

// CreatePet handles POST /api/v1/pets.
func (h *PetHandler) CreatePet(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	pet, err := h.petService.CreatePet(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, core.ErrPetLimitReached) {
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Free plan pet limit reached. Upgrade to add more pets."})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create pet", Details: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, pet)
}

// ListPets handles GET /api/v1/pets.
func (h *PetHandler) ListPets(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	pets, err := h.petService.ListPets(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list pets", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, pets)
}

// ListSharedPets handles GET /api/v1/vet/pets, the veterinarian's view of
// pets shared with them.
func (h *PetHandler) ListSharedPets(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	pets, err := h.petService.ListPetsSharedWithVet(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list shared pets", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, pets)
}

// GetPet handles GET /api/v1/pets/:petId.
func (h *PetHandler) GetPet(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	pet, err := h.petService.GetPet(c.Request.Context(), userID, c.Param("petId"))
	if err != nil {
		h.respondPetError(c, err, "Failed to retrieve pet")
		return
	}

	c.JSON(http.StatusOK, pet)
}

// UpdatePet handles PUT /api/v1/pets/:petId.
func (h *PetHandler) UpdatePet(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.UpdatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	pet, err := h.petService.UpdatePet(c.Request.Context(), userID, c.Param("petId"), req)
	if err != nil {
		h.respondPetError(c, err, "Failed to update pet")
		return
	}

	c.JSON(http.StatusOK, pet)
}

// DeletePet handles DELETE /api/v1/pets/:petId.
func (h *PetHandler) DeletePet(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.petService.DeletePet(c.Request.Context(), userID, c.Param("petId")); err != nil {
		h.respondPetError(c, err, "Failed to delete pet")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Pet deleted"})
}

// ShareWithVet handles POST /api/v1/pets/:petId/share.
func (h *PetHandler) ShareWithVet(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.SharePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.petService.ShareWithVet(c.Request.Context(), userID, c.Param("petId"), req.VetEmail); err != nil {
		switch {
		case errors.Is(err, core.ErrNotAVet):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Target account is not a veterinarian"})
		case errors.Is(err, core.ErrUserNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "No account exists for that email"})
		default:
			h.respondPetError(c, err, "Failed to share pet")
		}
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Pet shared with veterinarian"})
}

// RemoveVetShare handles DELETE /api/v1/pets/:petId/share/:vetId.
func (h *PetHandler) RemoveVetShare(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.petService.RemoveVetShare(c.Request.Context(), userID, c.Param("petId"), c.Param("vetId")); err != nil {
		h.respondPetError(c, err, "Failed to remove share")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Share removed"})
}

func (h *PetHandler) respondPetError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, core.ErrPetNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Pet not found"})
	case errors.Is(err, core.ErrAccessDenied):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "You do not have access to this pet"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback, Details: err.Error()})
	}
}
