package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Name         string         `gorm:"type:varchar(255)" json:"name"`
	Email        *string        `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Roles        RoleSet        `gorm:"type:varchar(64);not null;default:'member'" json:"roles"`
	HouseholdID  *uint64        `gorm:"index" json:"household_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// HasRole reports whether the user's role set contains r.
func (u *User) HasRole(r Role) bool {
	return u.Roles.Has(r)
}

// BelongsTo reports whether the user is attached to the given household.
func (u *User) BelongsTo(householdID uint64) bool {
	return u.HouseholdID != nil && *u.HouseholdID == householdID
}
