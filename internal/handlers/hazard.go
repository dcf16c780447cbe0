package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/disaster-response-api/internal/dto"
	apierrors "github.com/yukikurage/disaster-response-api/internal/errors"
	"github.com/yukikurage/disaster-response-api/internal/models"
	"github.com/yukikurage/disaster-response-api/internal/services"
	"github.com/yukikurage/disaster-response-api/internal/utils"
)

// HazardHandler serves hazard reports.
type HazardHandler struct {
	hazards *services.HazardService
}

// NewHazardHandler creates a new HazardHandler.
func NewHazardHandler(hazards *services.HazardService) *HazardHandler {
	return &HazardHandler{hazards: hazards}
}

// List returns hazards filtered by status (open by default, "all" for every status)
func (h *HazardHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	status := c.Query("status")

	hazards, total, err := h.hazards.ListHazards(services.ListHazardsInput{
		Status: status,
		Page:   params.Page,
		Limit:  params.Limit,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if status == "" {
		status = string(models.HazardStatusOpen)
	}
	c.JSON(http.StatusOK, dto.HazardListResponse{
		Hazards:    dto.ToHazardDTOs(hazards),
		Status:     status,
		Pagination: utils.NewPaginationResponse(params, total),
	})
}

// Create reports a new hazard and alerts every user with an email address
func (h *HazardHandler) Create(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.CreateHazardInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	hazard, err := h.hazards.CreateHazard(c.Request.Context(), actor, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToHazardDTO(*hazard))
}

// Update changes a hazard; only its reporter or an admin may do so
func (h *HazardHandler) Update(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateHazardInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	hazard, err := h.hazards.UpdateHazard(actor, id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToHazardDTO(*hazard))
}

// Delete removes a hazard
func (h *HazardHandler) Delete(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.hazards.DeleteHazard(actor, id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Hazard deleted successfully",
	})
}

// ListTypes returns every hazard type
func (h *HazardHandler) ListTypes(c *gin.Context) {
	types, err := h.hazards.ListHazardTypes()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hazard_types": dto.ToHazardTypeDTOs(types),
	})
}
