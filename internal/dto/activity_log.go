package dto

import (
	"time"

	"github.com/yukikurage/disaster-response-api/internal/models"
	"github.com/yukikurage/disaster-response-api/internal/utils"
)

// ActivityLogDTO represents an audit entry in API responses
type ActivityLogDTO struct {
	ID          uint64                 `json:"id"`
	Action      string                 `json:"action"`
	User        *UserDTO               `json:"user"`
	SubjectType string                 `json:"subject_type,omitempty"`
	SubjectID   *uint64                `json:"subject_id,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// ActivityLogListResponse represents a paginated list of audit entries
type ActivityLogListResponse struct {
	Logs       []ActivityLogDTO         `json:"logs"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToActivityLogDTO converts an ActivityLog model to DTO
func ToActivityLogDTO(entry models.ActivityLog) ActivityLogDTO {
	out := ActivityLogDTO{
		ID:          entry.ID,
		Action:      entry.Action,
		SubjectType: entry.SubjectType,
		SubjectID:   entry.SubjectID,
		CreatedAt:   entry.CreatedAt,
	}
	if entry.User != nil {
		user := ToUserDTO(*entry.User)
		out.User = &user
	}
	if len(entry.Metadata) > 0 {
		out.Metadata = map[string]interface{}(entry.Metadata)
	}
	return out
}

// ToActivityLogListResponse converts a page of entries
func ToActivityLogListResponse(entries []models.ActivityLog, params utils.PaginationParams, total int64) ActivityLogListResponse {
	logs := make([]ActivityLogDTO, len(entries))
	for i, e := range entries {
		logs[i] = ToActivityLogDTO(e)
	}
	return ActivityLogListResponse{
		Logs:       logs,
		Pagination: utils.NewPaginationResponse(params, total),
	}
}
