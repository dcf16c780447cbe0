package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/disaster-response-api/internal/models"
	"github.com/yukikurage/disaster-response-api/internal/repository"
	"github.com/yukikurage/disaster-response-api/internal/utils"
	"gorm.io/gorm"
)

// View kinds returned by HouseholdView.
const (
	ViewAdmin             = "admin"
	ViewLeader            = "leader"
	ViewMemberUnassigned  = "member_unassigned"
	ViewMemberOfHousehold = "member"
)

// HouseholdSummary is a household row with its member count.
type HouseholdSummary struct {
	models.Household
	MemberCount int64 `json:"member_count"`
}

// HouseholdView is the role specific payload behind the households page.
type HouseholdView struct {
	View string `json:"view"`

	// admin; PendingRequests also backs the leader and unassigned views
	Households           []HouseholdSummary        `json:"households,omitempty"`
	HouseholdsPagination *utils.PaginationResponse `json:"households_pagination,omitempty"`
	UnassignedMembers    []models.User             `json:"unassigned_members,omitempty"`
	PendingRequests      []models.HouseholdRequest `json:"pending_requests,omitempty"`
	RequestsPagination   *utils.PaginationResponse `json:"requests_pagination,omitempty"`

	// leader and member
	Household *models.Household `json:"household,omitempty"`
	Members   []models.User     `json:"members,omitempty"`

	// member without a household
	HouseholdOptions []repository.HouseholdOption `json:"household_options,omitempty"`
}

// HouseholdViewInput holds the admin listing filters.
type HouseholdViewInput struct {
	Status     *models.HouseholdStatus
	Pagination utils.PaginationParams
}

// ViewService selects and fills the household view for a user's role set.
type ViewService struct {
	store *repository.Store
}

// NewViewService creates a new ViewService.
func NewViewService(store *repository.Store) *ViewService {
	return &ViewService{store: store}
}

// HouseholdView dispatches on the actor's roles: admin, then leader, then member.
func (s *ViewService) HouseholdView(actor *models.User, input HouseholdViewInput) (*HouseholdView, error) {
	if actor.HasRole(models.RoleAdmin) {
		return s.adminView(input)
	}

	if actor.HasRole(models.RoleLeader) {
		view, err := s.leaderView(actor)
		if err == nil || !errors.Is(err, ErrHouseholdNotFound) {
			return view, err
		}
	}

	if actor.HasRole(models.RoleMember) {
		if actor.HouseholdID != nil {
			view, err := s.memberView(*actor.HouseholdID)
			if err == nil || !errors.Is(err, ErrHouseholdNotFound) {
				return view, err
			}
		}
		return s.unassignedView(actor)
	}

	return nil, ErrForbidden
}

func (s *ViewService) adminView(input HouseholdViewInput) (*HouseholdView, error) {
	if input.Status != nil && !validHouseholdStatus(*input.Status) {
		return nil, newFieldError("status", "must be one of: safe, at_risk, need_rescue, evacuated")
	}
	params := input.Pagination

	households, total, err := s.store.Households.List(repository.HouseholdFilter{
		Status:   input.Status,
		Page:     params.Page,
		PageSize: params.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list households: %w", err)
	}

	ids := make([]uint64, len(households))
	for i, h := range households {
		ids[i] = h.ID
	}
	counts, err := s.store.Users.CountMembers(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}

	summaries := make([]HouseholdSummary, len(households))
	for i, h := range households {
		summaries[i] = HouseholdSummary{Household: h, MemberCount: counts[h.ID]}
	}

	unassigned, err := s.store.Users.ListUnassignedMembers()
	if err != nil {
		return nil, fmt.Errorf("failed to list unassigned members: %w", err)
	}

	pending := models.HouseholdRequestPending
	requests, requestTotal, err := s.store.Requests.List(repository.HouseholdRequestFilter{
		Status:   &pending,
		Page:     params.Page,
		PageSize: params.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}

	householdsPage := utils.NewPaginationResponse(params, total)
	requestsPage := utils.NewPaginationResponse(params, requestTotal)

	return &HouseholdView{
		View:                 ViewAdmin,
		Households:           summaries,
		HouseholdsPagination: &householdsPage,
		UnassignedMembers:    unassigned,
		PendingRequests:      requests,
		RequestsPagination:   &requestsPage,
	}, nil
}

func (s *ViewService) leaderView(actor *models.User) (*HouseholdView, error) {
	household, err := s.store.Households.FindByLeader(actor.ID, "Leader")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHouseholdNotFound
		}
		return nil, fmt.Errorf("failed to find led household: %w", err)
	}

	members, err := s.store.Users.ListByHousehold(household.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list household members: %w", err)
	}

	pending := models.HouseholdRequestPending
	join := models.HouseholdRequestTypeJoin
	requests, _, err := s.store.Requests.List(repository.HouseholdRequestFilter{
		HouseholdID: &household.ID,
		Type:        &join,
		Status:      &pending,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list join requests: %w", err)
	}

	return &HouseholdView{
		View:            ViewLeader,
		Household:       household,
		Members:         members,
		PendingRequests: requests,
	}, nil
}

func (s *ViewService) memberView(householdID uint64) (*HouseholdView, error) {
	household, err := s.store.Households.FindByID(householdID, "Leader", "Members")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHouseholdNotFound
		}
		return nil, fmt.Errorf("failed to find household: %w", err)
	}

	return &HouseholdView{
		View:      ViewMemberOfHousehold,
		Household: household,
		Members:   household.Members,
	}, nil
}

func (s *ViewService) unassignedView(actor *models.User) (*HouseholdView, error) {
	options, err := s.store.Households.ListOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to list households: %w", err)
	}

	pending := models.HouseholdRequestPending
	requests, _, err := s.store.Requests.List(repository.HouseholdRequestFilter{
		UserID: &actor.ID,
		Status: &pending,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list own requests: %w", err)
	}

	return &HouseholdView{
		View:             ViewMemberUnassigned,
		HouseholdOptions: options,
		PendingRequests:  requests,
	}, nil
}
