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

// HouseholdHandler serves household views and lifecycle endpoints.
type HouseholdHandler struct {
	households *services.HouseholdService
	views      *services.ViewService
}

// NewHouseholdHandler creates a new HouseholdHandler.
func NewHouseholdHandler(households *services.HouseholdService, views *services.ViewService) *HouseholdHandler {
	return &HouseholdHandler{
		households: households,
		views:      views,
	}
}

// View returns the households page for the current user's role
func (h *HouseholdHandler) View(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	input := services.HouseholdViewInput{Pagination: utils.GetPaginationParams(c)}
	if status := c.Query("status"); status != "" && status != "all" {
		s := models.HouseholdStatus(status)
		input.Status = &s
	}

	view, err := h.views.HouseholdView(actor, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToHouseholdViewDTO(*view))
}

// Create creates a household for an owner, who becomes its leader
func (h *HouseholdHandler) Create(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.CreateHouseholdInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	household, err := h.households.CreateHousehold(actor, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToHouseholdDTO(*household))
}

// Update applies a partial household update
func (h *HouseholdHandler) Update(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateHouseholdInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	household, err := h.households.UpdateHousehold(actor, id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToHouseholdDTO(*household))
}

// Delete removes a household after detaching its members
func (h *HouseholdHandler) Delete(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.households.DeleteHousehold(actor, id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Household deleted successfully",
	})
}

// ChangeStatus sets the household safety status
func (h *HouseholdHandler) ChangeStatus(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type ChangeStatusRequest struct {
		Status models.HouseholdStatus `json:"status" binding:"required"`
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	household, err := h.households.ChangeStatus(actor, id, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToHouseholdDTO(*household))
}

// RemoveMember detaches a member from the current leader's household
func (h *HouseholdHandler) RemoveMember(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.households.RemoveMember(actor, targetID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed successfully",
	})
}
