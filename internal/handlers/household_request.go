package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/disaster-response-api/internal/dto"
	apierrors "github.com/yukikurage/disaster-response-api/internal/errors"
	"github.com/yukikurage/disaster-response-api/internal/services"
)

// HouseholdRequestHandler serves the join and create request workflow.
type HouseholdRequestHandler struct {
	requests *services.RequestService
}

// NewHouseholdRequestHandler creates a new HouseholdRequestHandler.
func NewHouseholdRequestHandler(requests *services.RequestService) *HouseholdRequestHandler {
	return &HouseholdRequestHandler{requests: requests}
}

// RequestJoin files a request to join an existing household
func (h *HouseholdRequestHandler) RequestJoin(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	type JoinRequest struct {
		HouseholdID uint64 `json:"household_id" binding:"required"`
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	request, err := h.requests.RequestJoin(actor, req.HouseholdID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToHouseholdRequestDTO(*request))
}

// RequestCreate files a request to create a new household
func (h *HouseholdRequestHandler) RequestCreate(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.RequestCreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	request, err := h.requests.RequestCreate(actor, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToHouseholdRequestDTO(*request))
}

// Approve applies a pending request
func (h *HouseholdRequestHandler) Approve(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	request, err := h.requests.Approve(actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToHouseholdRequestDTO(*request))
}

// Deny rejects a pending request
func (h *HouseholdRequestHandler) Deny(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	request, err := h.requests.Deny(actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToHouseholdRequestDTO(*request))
}
