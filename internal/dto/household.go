package dto

import (
	"time"

	"github.com/yukikurage/disaster-response-api/internal/models"
	"github.com/yukikurage/disaster-response-api/internal/repository"
	"github.com/yukikurage/disaster-response-api/internal/services"
	"github.com/yukikurage/disaster-response-api/internal/utils"
)

// HouseholdDTO represents a household in API responses
type HouseholdDTO struct {
	ID          uint64                 `json:"id"`
	Name        string                 `json:"name"`
	Address     string                 `json:"address"`
	Lat         float64                `json:"lat"`
	Long        float64                `json:"long"`
	Status      models.HouseholdStatus `json:"status"`
	LeaderID    *uint64                `json:"leader_id"`
	Leader      *UserDTO               `json:"leader,omitempty"`
	Members     []UserDTO              `json:"members,omitempty"`
	MemberCount *int64                 `json:"member_count,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// HouseholdRequestDTO represents a join or create request in API responses
type HouseholdRequestDTO struct {
	ID          uint64                         `json:"id"`
	Type        models.HouseholdRequestType    `json:"type"`
	Status      models.HouseholdRequestStatus  `json:"status"`
	UserID      uint64                         `json:"user_id"`
	User        *UserDTO                       `json:"user,omitempty"`
	HouseholdID *uint64                        `json:"household_id"`
	Household   *repository.HouseholdOption    `json:"household,omitempty"`
	Proposed    *models.CreateHouseholdPayload `json:"proposed,omitempty"`
	DecidedByID *uint64                        `json:"decided_by_id,omitempty"`
	DecidedAt   *time.Time                     `json:"decided_at,omitempty"`
	CreatedAt   time.Time                      `json:"created_at"`
}

// HouseholdViewDTO is the role-scoped households page
type HouseholdViewDTO struct {
	View                 string                       `json:"view"`
	Households           []HouseholdDTO               `json:"households,omitempty"`
	HouseholdsPagination *utils.PaginationResponse    `json:"households_pagination,omitempty"`
	UnassignedMembers    []UserDTO                    `json:"unassigned_members,omitempty"`
	PendingRequests      []HouseholdRequestDTO        `json:"pending_requests"`
	RequestsPagination   *utils.PaginationResponse    `json:"requests_pagination,omitempty"`
	Household            *HouseholdDTO                `json:"household,omitempty"`
	Members              []UserDTO                    `json:"members,omitempty"`
	HouseholdOptions     []repository.HouseholdOption `json:"household_options,omitempty"`
}

// ToHouseholdDTO converts a Household model to HouseholdDTO
func ToHouseholdDTO(household models.Household) HouseholdDTO {
	out := HouseholdDTO{
		ID:        household.ID,
		Name:      household.Name,
		Address:   household.Address,
		Lat:       household.Lat,
		Long:      household.Long,
		Status:    household.Status,
		LeaderID:  household.UserID,
		CreatedAt: household.CreatedAt,
		UpdatedAt: household.UpdatedAt,
	}

	if household.Leader != nil {
		leader := ToUserDTO(*household.Leader)
		out.Leader = &leader
	}
	if len(household.Members) > 0 {
		out.Members = ToUserDTOs(household.Members)
	}

	return out
}

// ToHouseholdDTOs converts a slice of households
func ToHouseholdDTOs(households []models.Household) []HouseholdDTO {
	out := make([]HouseholdDTO, len(households))
	for i, h := range households {
		out[i] = ToHouseholdDTO(h)
	}
	return out
}

// ToHouseholdRequestDTO converts a HouseholdRequest model to DTO
func ToHouseholdRequestDTO(request models.HouseholdRequest) HouseholdRequestDTO {
	out := HouseholdRequestDTO{
		ID:          request.ID,
		Type:        request.Type,
		Status:      request.Status,
		UserID:      request.UserID,
		HouseholdID: request.HouseholdID,
		DecidedByID: request.DecidedByID,
		DecidedAt:   request.DecidedAt,
		CreatedAt:   request.CreatedAt,
	}

	if request.User.ID != 0 {
		user := ToUserDTO(request.User)
		out.User = &user
	}
	if request.Household != nil {
		out.Household = &repository.HouseholdOption{ID: request.Household.ID, Name: request.Household.Name}
	}
	if payload, err := request.CreatePayload(); err == nil {
		out.Proposed = &payload
	}

	return out
}

// ToHouseholdRequestDTOs converts a slice of requests
func ToHouseholdRequestDTOs(requests []models.HouseholdRequest) []HouseholdRequestDTO {
	out := make([]HouseholdRequestDTO, len(requests))
	for i, r := range requests {
		out[i] = ToHouseholdRequestDTO(r)
	}
	return out
}

// ToHouseholdViewDTO converts the role-scoped view
func ToHouseholdViewDTO(view services.HouseholdView) HouseholdViewDTO {
	out := HouseholdViewDTO{
		View:                 view.View,
		HouseholdsPagination: view.HouseholdsPagination,
		PendingRequests:      ToHouseholdRequestDTOs(view.PendingRequests),
		RequestsPagination:   view.RequestsPagination,
		HouseholdOptions:     view.HouseholdOptions,
	}

	if view.Households != nil {
		out.Households = make([]HouseholdDTO, len(view.Households))
		for i, summary := range view.Households {
			household := ToHouseholdDTO(summary.Household)
			count := summary.MemberCount
			household.MemberCount = &count
			out.Households[i] = household
		}
	}
	if view.UnassignedMembers != nil {
		out.UnassignedMembers = ToUserDTOs(view.UnassignedMembers)
	}
	if view.Household != nil {
		household := ToHouseholdDTO(*view.Household)
		household.Members = nil
		out.Household = &household
	}
	if view.Members != nil {
		out.Members = ToUserDTOs(view.Members)
	}

	return out
}
