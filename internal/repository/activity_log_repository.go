package repository

import (
	"github.com/yukikurage/disaster-response-api/internal/database"
	"github.com/yukikurage/disaster-response-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormActivityLogRepository is a GORM implementation of ActivityLogRepository
type GormActivityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository creates a new ActivityLogRepository
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &GormActivityLogRepository{db: db}
}

// Create appends a log entry
func (r *GormActivityLogRepository) Create(entry *models.ActivityLog) error {
	return r.db.Omit(clause.Associations).Create(entry).Error
}

// List retrieves entries with filtering and pagination, newest first
func (r *GormActivityLogRepository) List(filter ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	var logs []models.ActivityLog

	query := r.db.Model(&models.ActivityLog{})
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := paginate(query, filter.Page, filter.PageSize).
		Preload("User").
		Scopes(database.NewestFirst("activity_logs")).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
