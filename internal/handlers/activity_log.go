package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/disaster-response-api/internal/dto"
	"github.com/yukikurage/disaster-response-api/internal/services"
	"github.com/yukikurage/disaster-response-api/internal/utils"
)

// ActivityLogHandler serves the read-only audit trail.
type ActivityLogHandler struct {
	activity *services.ActivityLogger
}

// NewActivityLogHandler creates a new ActivityLogHandler.
func NewActivityLogHandler(activity *services.ActivityLogger) *ActivityLogHandler {
	return &ActivityLogHandler{activity: activity}
}

// List returns audit entries, newest first, optionally filtered by action
func (h *ActivityLogHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	entries, total, err := h.activity.List(services.ActivityLogListInput{
		Action: c.Query("action"),
		Page:   params.Page,
		Limit:  params.Limit,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToActivityLogListResponse(entries, params, total))
}
