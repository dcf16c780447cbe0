package repository

import (
	"github.com/yukikurage/disaster-response-api/internal/database"
	"github.com/yukikurage/disaster-response-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormHouseholdRepository is a GORM implementation of HouseholdRepository
type GormHouseholdRepository struct {
	db *gorm.DB
}

// NewHouseholdRepository creates a new HouseholdRepository
func NewHouseholdRepository(db *gorm.DB) HouseholdRepository {
	return &GormHouseholdRepository{db: db}
}

// Create creates a new household
func (r *GormHouseholdRepository) Create(household *models.Household) error {
	return r.db.Omit(clause.Associations).Create(household).Error
}

// FindByID finds a household by ID with optional preloading
func (r *GormHouseholdRepository) FindByID(id uint64, preload ...string) (*models.Household, error) {
	var household models.Household
	if err := withPreload(r.db, preload).First(&household, id).Error; err != nil {
		return nil, err
	}
	return &household, nil
}

// FindByLeader finds the household owned by a leader
func (r *GormHouseholdRepository) FindByLeader(userID uint64, preload ...string) (*models.Household, error) {
	var household models.Household
	if err := withPreload(r.db, preload).
		Where("user_id = ?", userID).
		Order("id DESC").
		First(&household).Error; err != nil {
		return nil, err
	}
	return &household, nil
}

// Update saves the household columns without touching associations
func (r *GormHouseholdRepository) Update(household *models.Household) error {
	return r.db.Omit(clause.Associations).Save(household).Error
}

// Delete soft deletes a household
func (r *GormHouseholdRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Household{}, id).Error
}

// List retrieves households with filtering and pagination, newest first
func (r *GormHouseholdRepository) List(filter HouseholdFilter) ([]models.Household, int64, error) {
	var households []models.Household

	query := r.db.Model(&models.Household{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := paginate(query, filter.Page, filter.PageSize).
		Preload("Leader").
		Scopes(database.NewestFirst("households")).
		Find(&households).Error; err != nil {
		return nil, 0, err
	}

	return households, total, nil
}

// ListAll retrieves every household
func (r *GormHouseholdRepository) ListAll() ([]models.Household, error) {
	var households []models.Household
	if err := r.db.Order("id").Find(&households).Error; err != nil {
		return nil, err
	}
	return households, nil
}

// ListOptions retrieves id and name of every household ordered by name
func (r *GormHouseholdRepository) ListOptions() ([]HouseholdOption, error) {
	var options []HouseholdOption
	if err := r.db.Model(&models.Household{}).
		Select("id", "name").
		Order("name").
		Scan(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

// CountByStatus counts households per status
func (r *GormHouseholdRepository) CountByStatus() (map[models.HouseholdStatus]int64, error) {
	var rows []struct {
		Status models.HouseholdStatus
		Total  int64
	}
	if err := r.db.Model(&models.Household{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.HouseholdStatus]int64, len(models.HouseholdStatuses))
	for _, status := range models.HouseholdStatuses {
		counts[status] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
