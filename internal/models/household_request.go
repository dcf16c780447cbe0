package models

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
)

type HouseholdRequestType string

const (
	HouseholdRequestTypeCreate HouseholdRequestType = "create"
	HouseholdRequestTypeJoin   HouseholdRequestType = "join"
)

type HouseholdRequestStatus string

const (
	HouseholdRequestPending  HouseholdRequestStatus = "pending"
	HouseholdRequestApproved HouseholdRequestStatus = "approved"
	HouseholdRequestDenied   HouseholdRequestStatus = "denied"
)

// ErrNotCreateRequest is returned when reading a create payload from a join request.
var ErrNotCreateRequest = errors.New("household request does not carry a create payload")

// CreateHouseholdPayload holds the proposed household of a create request.
type CreateHouseholdPayload struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Long    float64 `json:"long"`
}

type HouseholdRequest struct {
	ID          uint64                 `gorm:"primarykey" json:"id"`
	UserID      uint64                 `gorm:"not null;index:idx_household_requests_user_household" json:"user_id"`
	HouseholdID *uint64                `gorm:"index:idx_household_requests_user_household" json:"household_id"`
	Type        HouseholdRequestType   `gorm:"type:varchar(20);not null" json:"type"`
	Status      HouseholdRequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Meta        datatypes.JSON         `json:"meta,omitempty"`
	DecidedByID *uint64                `json:"decided_by_id"`
	DecidedAt   *time.Time             `json:"decided_at"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`

	// Relations
	User      User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Household *Household `gorm:"foreignKey:HouseholdID" json:"household,omitempty"`
}

// NewJoinHouseholdRequest builds a pending join request for an existing household.
func NewJoinHouseholdRequest(userID, householdID uint64) *HouseholdRequest {
	return &HouseholdRequest{
		UserID:      userID,
		HouseholdID: &householdID,
		Type:        HouseholdRequestTypeJoin,
		Status:      HouseholdRequestPending,
	}
}

// NewCreateHouseholdRequest builds a pending create request carrying the proposed household.
// The household reference stays nil until the request is approved.
func NewCreateHouseholdRequest(userID uint64, payload CreateHouseholdPayload) (*HouseholdRequest, error) {
	meta, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &HouseholdRequest{
		UserID: userID,
		Type:   HouseholdRequestTypeCreate,
		Status: HouseholdRequestPending,
		Meta:   datatypes.JSON(meta),
	}, nil
}

// CreatePayload decodes the proposed household of a create request.
func (r *HouseholdRequest) CreatePayload() (CreateHouseholdPayload, error) {
	var payload CreateHouseholdPayload
	if r.Type != HouseholdRequestTypeCreate || len(r.Meta) == 0 {
		return payload, ErrNotCreateRequest
	}
	if err := json.Unmarshal(r.Meta, &payload); err != nil {
		return payload, err
	}
	return payload, nil
}

// IsPending reports whether the request still awaits a decision.
func (r *HouseholdRequest) IsPending() bool {
	return r.Status == HouseholdRequestPending
}
