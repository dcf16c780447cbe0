package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/disaster-response-api/internal/dto"
	"github.com/yukikurage/disaster-response-api/internal/services"
)

// DashboardHandler serves the read-only summaries.
type DashboardHandler struct {
	dashboard *services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats returns household and hazard counts
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboard.Stats()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Map returns open hazards, hazard types and households
func (h *DashboardHandler) Map(c *gin.Context) {
	data, err := h.dashboard.MapData()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMapDataDTO(*data))
}
