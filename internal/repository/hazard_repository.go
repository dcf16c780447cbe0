package repository

import (
	"github.com/yukikurage/disaster-response-api/internal/database"
	"github.com/yukikurage/disaster-response-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormHazardRepository is a GORM implementation of HazardRepository
type GormHazardRepository struct {
	db *gorm.DB
}

// NewHazardRepository creates a new HazardRepository
func NewHazardRepository(db *gorm.DB) HazardRepository {
	return &GormHazardRepository{db: db}
}

// Create creates a new hazard
func (r *GormHazardRepository) Create(hazard *models.Hazard) error {
	return r.db.Omit(clause.Associations).Create(hazard).Error
}

// FindByID finds a hazard by ID with optional preloading
func (r *GormHazardRepository) FindByID(id uint64, preload ...string) (*models.Hazard, error) {
	var hazard models.Hazard
	if err := withPreload(r.db, preload).First(&hazard, id).Error; err != nil {
		return nil, err
	}
	return &hazard, nil
}

// Update saves the hazard columns without touching associations
func (r *GormHazardRepository) Update(hazard *models.Hazard) error {
	return r.db.Omit(clause.Associations).Save(hazard).Error
}

// Delete soft deletes a hazard
func (r *GormHazardRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Hazard{}, id).Error
}

// List retrieves hazards with filtering and pagination, newest first
func (r *GormHazardRepository) List(filter HazardFilter) ([]models.Hazard, int64, error) {
	var hazards []models.Hazard

	query := r.db.Model(&models.Hazard{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := paginate(query, filter.Page, filter.PageSize).
		Preload("User").
		Preload("HazardType").
		Scopes(database.NewestFirst("hazards")).
		Find(&hazards).Error; err != nil {
		return nil, 0, err
	}

	return hazards, total, nil
}

// CountByType tallies hazards per type and status
func (r *GormHazardRepository) CountByType() ([]HazardTypeCount, error) {
	var counts []HazardTypeCount
	if err := r.db.Model(&models.Hazard{}).
		Select("hazard_type_id, status, COUNT(*) AS count").
		Group("hazard_type_id, status").
		Order("hazard_type_id, status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// FindTypeByID finds a hazard type by ID
func (r *GormHazardRepository) FindTypeByID(id uint64) (*models.HazardType, error) {
	var hazardType models.HazardType
	if err := r.db.First(&hazardType, id).Error; err != nil {
		return nil, err
	}
	return &hazardType, nil
}

// ListTypes lists all hazard types ordered by name
func (r *GormHazardRepository) ListTypes() ([]models.HazardType, error) {
	var types []models.HazardType
	if err := r.db.Order("name").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}
