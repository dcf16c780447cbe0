package models

import (
	"time"

	"gorm.io/gorm"
)

type HouseholdStatus string

const (
	HouseholdStatusSafe       HouseholdStatus = "safe"
	HouseholdStatusAtRisk     HouseholdStatus = "at_risk"
	HouseholdStatusNeedRescue HouseholdStatus = "need_rescue"
	HouseholdStatusEvacuated  HouseholdStatus = "evacuated"
)

// HouseholdStatuses lists every status in display order.
var HouseholdStatuses = []HouseholdStatus{
	HouseholdStatusSafe,
	HouseholdStatusAtRisk,
	HouseholdStatusNeedRescue,
	HouseholdStatusEvacuated,
}

type Household struct {
	ID        uint64          `gorm:"primarykey" json:"id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Address   string          `gorm:"type:text;not null" json:"address"`
	Lat       float64         `gorm:"column:latitude;type:decimal(10,8);not null" json:"lat"`
	Long      float64         `gorm:"column:longitude;type:decimal(11,8);not null" json:"long"`
	Status    HouseholdStatus `gorm:"type:varchar(20);not null;default:'safe'" json:"status"`
	UserID    *uint64         `gorm:"index" json:"user_id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relations
	Leader  *User  `gorm:"foreignKey:UserID" json:"leader,omitempty"`
	Members []User `gorm:"foreignKey:HouseholdID" json:"members,omitempty"`
}
