package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog is an append-only audit record. Nothing updates or deletes these rows.
type ActivityLog struct {
	ID          uint64            `gorm:"primarykey" json:"id"`
	UserID      *uint64           `gorm:"index" json:"user_id"`
	Action      string            `gorm:"type:varchar(255);not null;index" json:"action"`
	SubjectType string            `gorm:"type:varchar(100)" json:"subject_type,omitempty"`
	SubjectID   *uint64           `json:"subject_id,omitempty"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt   time.Time         `gorm:"index" json:"created_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// AllModels lists every model managed by migrations.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Household{},
		&HouseholdRequest{},
		&HazardType{},
		&Hazard{},
		&ActivityLog{},
	}
}
