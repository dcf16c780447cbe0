package repository

import (
	"time"

	"github.com/yukikurage/disaster-response-api/internal/database"
	"github.com/yukikurage/disaster-response-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Decision describes the terminal state a pending request moves to
type Decision struct {
	Status      models.HouseholdRequestStatus
	DecidedByID *uint64
	// HouseholdID is written only when non-nil (set when a create request is approved)
	HouseholdID *uint64
}

// GormHouseholdRequestRepository is a GORM implementation of HouseholdRequestRepository
type GormHouseholdRequestRepository struct {
	db *gorm.DB
}

// NewHouseholdRequestRepository creates a new HouseholdRequestRepository
func NewHouseholdRequestRepository(db *gorm.DB) HouseholdRequestRepository {
	return &GormHouseholdRequestRepository{db: db}
}

// Create creates a new request
func (r *GormHouseholdRequestRepository) Create(request *models.HouseholdRequest) error {
	return r.db.Omit(clause.Associations).Create(request).Error
}

// FindByID finds a request by ID with optional preloading
func (r *GormHouseholdRequestRepository) FindByID(id uint64, preload ...string) (*models.HouseholdRequest, error) {
	var request models.HouseholdRequest
	if err := withPreload(r.db, preload).First(&request, id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// Decide moves a pending request to a terminal status
func (r *GormHouseholdRequestRepository) Decide(id uint64, decision Decision) (bool, error) {
	now := time.Now()
	updates := map[string]interface{}{
		"status":        decision.Status,
		"decided_by_id": decision.DecidedByID,
		"decided_at":    &now,
	}
	if decision.HouseholdID != nil {
		updates["household_id"] = *decision.HouseholdID
	}

	// The status guard makes the claim atomic: two concurrent deciders cannot both win.
	result := r.db.Model(&models.HouseholdRequest{}).
		Where("id = ? AND status = ?", id, models.HouseholdRequestPending).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ExistsPendingJoin reports whether a pending join request exists for the pair
func (r *GormHouseholdRequestRepository) ExistsPendingJoin(userID, householdID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.HouseholdRequest{}).
		Where("user_id = ? AND household_id = ?", userID, householdID).
		Where("type = ? AND status = ?", models.HouseholdRequestTypeJoin, models.HouseholdRequestPending).
		Count(&count).Error
	return count > 0, err
}

// List retrieves requests with filtering and pagination, newest first
func (r *GormHouseholdRequestRepository) List(filter HouseholdRequestFilter) ([]models.HouseholdRequest, int64, error) {
	var requests []models.HouseholdRequest

	query := r.db.Model(&models.HouseholdRequest{})
	if filter.HouseholdID != nil {
		query = query.Where("household_id = ?", *filter.HouseholdID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := paginate(query, filter.Page, filter.PageSize).
		Preload("User").
		Preload("Household").
		Scopes(database.NewestFirst("household_requests")).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}
