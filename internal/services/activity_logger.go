package services

import (
	"fmt"

	"github.com/yukikurage/disaster-response-api/internal/models"
	"github.com/yukikurage/disaster-response-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// Subject types recorded on activity log entries.
const (
	SubjectHousehold        = "household"
	SubjectHouseholdRequest = "household_request"
	SubjectHazard           = "hazard"
	SubjectUser             = "user"
)

// ActivityEntry describes one audit record. A nil ActorID marks a system action.
type ActivityEntry struct {
	ActorID     *uint64
	Action      string
	SubjectType string
	SubjectID   *uint64
	Metadata    map[string]interface{}
}

// ActivityLogger records notable mutations. Writes are best effort.
type ActivityLogger struct {
	repo   repository.ActivityLogRepository
	logger *zap.Logger
}

// NewActivityLogger creates a new ActivityLogger.
func NewActivityLogger(repo repository.ActivityLogRepository, logger *zap.Logger) *ActivityLogger {
	return &ActivityLogger{
		repo:   repo,
		logger: logger,
	}
}

// Log persists entry. A failed write is reported through the logger and never returned.
func (l *ActivityLogger) Log(entry ActivityEntry) {
	record := &models.ActivityLog{
		UserID:      entry.ActorID,
		Action:      entry.Action,
		SubjectType: entry.SubjectType,
		SubjectID:   entry.SubjectID,
	}
	if len(entry.Metadata) > 0 {
		record.Metadata = datatypes.JSONMap(entry.Metadata)
	}

	if err := l.repo.Create(record); err != nil {
		l.logger.Error("failed to write activity log",
			zap.String("action", entry.Action),
			zap.String("subject_type", entry.SubjectType),
			zap.Error(err),
		)
	}
}

// ActivityLogListInput holds the admin listing parameters.
type ActivityLogListInput struct {
	Action string
	Page   int
	Limit  int
}

// List returns activity log entries, newest first.
func (l *ActivityLogger) List(input ActivityLogListInput) ([]models.ActivityLog, int64, error) {
	logs, total, err := l.repo.List(repository.ActivityLogFilter{
		Action:   input.Action,
		Page:     input.Page,
		PageSize: input.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activity logs: %w", err)
	}
	return logs, total, nil
}

// actorID returns the ID of actor, or nil for system actions.
func actorID(actor *models.User) *uint64 {
	if actor == nil {
		return nil
	}
	id := actor.ID
	return &id
}

func subjectID(id uint64) *uint64 {
	return &id
}
