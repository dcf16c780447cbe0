package models

import (
	"time"

	"gorm.io/gorm"
)

type HazardStatus string

const (
	HazardStatusOpen     HazardStatus = "open"
	HazardStatusResolved HazardStatus = "resolved"
)

type HazardType struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Key       string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"key"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Color     string    `gorm:"type:varchar(20)" json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Hazard struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	UserID       uint64         `gorm:"not null;index" json:"user_id"`
	HazardTypeID uint64         `gorm:"not null;index" json:"hazard_type_id"`
	Title        string         `gorm:"type:varchar(120)" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Latitude     float64        `gorm:"type:decimal(10,7);not null" json:"latitude"`
	Longitude    float64        `gorm:"type:decimal(10,7);not null" json:"longitude"`
	Severity     int            `gorm:"not null;default:3;index" json:"severity"`
	Status       HazardStatus   `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User       User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	HazardType HazardType `gorm:"foreignKey:HazardTypeID" json:"hazard_type,omitempty"`
}

// DisplayTitle falls back to the hazard type name when no title was given.
func (h *Hazard) DisplayTitle() string {
	if h.Title != "" {
		return h.Title
	}
	return h.HazardType.Name
}
