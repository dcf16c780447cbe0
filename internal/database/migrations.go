package database

import (
	"fmt"
	"log"

	"github.com/yukikurage/disaster-response-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AddIndexes adds composite indexes that struct tags do not express
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model interface{}
		name  string
		sql   string
	}{
		// Role-scoped views filter households by status and leader
		{&models.Household{}, "idx_households_status", "CREATE INDEX idx_households_status ON households (status)"},
		// Hazards are listed by status, newest first
		{&models.Hazard{}, "idx_hazards_status_created_at", "CREATE INDEX idx_hazards_status_created_at ON hazards (status, created_at)"},
		// Map lookups by coordinates
		{&models.Hazard{}, "idx_hazards_location", "CREATE INDEX idx_hazards_location ON hazards (latitude, longitude)"},
		// Pending requests per household
		{&models.HouseholdRequest{}, "idx_household_requests_household_status", "CREATE INDEX idx_household_requests_household_status ON household_requests (household_id, type, status)"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			continue
		}

		if err := db.Exec(idx.sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s", idx.name)
	}

	return nil
}

// DefaultHazardTypes are inserted on first migration
var DefaultHazardTypes = []models.HazardType{
	{Key: "flood", Name: "Flood", Color: "#1e90ff"},
	{Key: "landslide", Name: "Landslide", Color: "#8b4513"},
	{Key: "fire", Name: "Fire", Color: "#ff4500"},
	{Key: "roadblock", Name: "Roadblock", Color: "#ffcc00"},
}

// SeedHazardTypes inserts the default hazard types, leaving existing keys untouched
func SeedHazardTypes(db *gorm.DB) error {
	types := make([]models.HazardType, len(DefaultHazardTypes))
	copy(types, DefaultHazardTypes)

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}).Create(&types).Error; err != nil {
		return fmt.Errorf("failed to seed hazard types: %w", err)
	}
	return nil
}

// MigrateDatabase runs the steps that follow AutoMigrate
func MigrateDatabase(db *gorm.DB) error {
	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	if err := SeedHazardTypes(db); err != nil {
		return err
	}

	return nil
}
