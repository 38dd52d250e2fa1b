package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"petpulse-backend-go/internal/core"
	"petpulse-backend-go/internal/models"
)

// HealthRecordHandler handles health metric endpoints nested under a pet.
type HealthRecordHandler struct {
	healthService core.HealthService
}

// NewHealthRecordHandler creates a new HealthRecordHandler.
func NewHealthRecordHandler(hs core.HealthService) *HealthRecordHandler {
	return &HealthRecordHandler{healthService: hs}
}

// AddRecord handles POST /api/v1/pets/:petId/records.
func (h *HealthRecordHandler) AddRecord(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateHealthRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	record, err := h.healthService.AddRecord(c.Request.Context(), userID, c.Param("petId"), req)
	if err != nil {
		h.respondError(c, err, "Failed to add health record")
		return
	}

	c.JSON(http.StatusCreated, record)
}

// ListRecords handles GET /api/v1/pets/:petId/records with optional
// type, since, until and limit query parameters.
func (h *HealthRecordHandler) ListRecords(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	query := models.ListHealthRecordsQuery{Type: c.Query("type")}
	if since := c.Query("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid 'since' timestamp, expected RFC3339"})
			return
		}
		query.Since = &t
	}
	if until := c.Query("until"); until != "" {
		t, err := time.Parse(time.RFC3339, until)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid 'until' timestamp, expected RFC3339"})
			return
		}
		query.Until = &t
	}
	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid 'limit' value"})
			return
		}
		query.Limit = n
	}

	records, err := h.healthService.ListRecords(c.Request.Context(), userID, c.Param("petId"), query)
	if err != nil {
		h.respondError(c, err, "Failed to list health records")
		return
	}

	c.JSON(http.StatusOK, records)
}

// DeleteRecord handles DELETE /api/v1/pets/:petId/records/:recordId.
func (h *HealthRecordHandler) DeleteRecord(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.healthService.DeleteRecord(c.Request.Context(), userID, c.Param("petId"), c.Param("recordId")); err != nil {
		h.respondError(c, err, "Failed to delete health record")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Health record deleted"})
}

func (h *HealthRecordHandler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, core.ErrInvalidMetricType):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid metric type"})
	case errors.Is(err, core.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Health record not found"})
	case errors.Is(err, core.ErrPetNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Pet not found"})
	case errors.Is(err, core.ErrAccessDenied):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "You do not have access to this pet"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback, Details: err.Error()})
	}
}

// ExportRecords handles GET /api/v1/pets/:petId/records/export. It returns
// the pet's full record history as a JSON attachment. The route is gated on
// an active subscription.
func (h *HealthRecordHandler) ExportRecords(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	petID := c.Param("petId")
	records, err := h.healthService.ListRecords(c.Request.Context(), userID, petID, models.ListHealthRecordsQuery{})
	if err != nil {
		h.respondError(c, err, "Failed to export health records")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="pet-%s-records.json"`, petID))
	c.JSON(http.StatusOK, records)
}
