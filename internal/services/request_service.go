package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/disaster-response-api/internal/models"
	"github.com/yukikurage/disaster-response-api/internal/repository"
	"gorm.io/gorm"
)

// RequestService mediates join and create requests between members and households.
type RequestService struct {
	store    *repository.Store
	activity *ActivityLogger
}

// NewRequestService creates a new RequestService.
func NewRequestService(store *repository.Store, activity *ActivityLogger) *RequestService {
	return &RequestService{
		store:    store,
		activity: activity,
	}
}

// RequestJoin files a pending request to join an existing household.
func (s *RequestService) RequestJoin(actor *models.User, householdID uint64) (*models.HouseholdRequest, error) {
	if actor.HasRole(models.RoleLeader) {
		return nil, ErrLeaderCannotJoin
	}

	if _, err := s.store.Households.FindByID(householdID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHouseholdNotFound
		}
		return nil, fmt.Errorf("failed to find household: %w", err)
	}
	if actor.BelongsTo(householdID) {
		return nil, newFieldError("household_id", "you already belong to this household")
	}

	exists, err := s.store.Requests.ExistsPendingJoin(actor.ID, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending requests: %w", err)
	}
	if exists {
		return nil, ErrDuplicatePendingRequest
	}

	request := models.NewJoinHouseholdRequest(actor.ID, householdID)
	if err := s.store.Requests.Create(request); err != nil {
		return nil, fmt.Errorf("failed to create join request: %w", err)
	}

	s.activity.Log(ActivityEntry{
		ActorID:     actorID(actor),
		Action:      "Submitted join request",
		SubjectType: SubjectHouseholdRequest,
		SubjectID:   subjectID(request.ID),
		Metadata:    map[string]interface{}{"household_id": householdID},
	})

	return request, nil
}

// RequestCreateInput holds the proposed household of a create request.
type RequestCreateInput struct {
	Name    string   `json:"name" validate:"required,max=255"`
	Address string   `json:"address" validate:"required"`
	Lat     *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Long    *float64 `json:"long" validate:"required,gte=-180,lte=180"`
}

// RequestCreate files a pending request to create a new household led by the actor.
func (s *RequestService) RequestCreate(actor *models.User, input RequestCreateInput) (*models.HouseholdRequest, error) {
	if actor.HasRole(models.RoleLeader) {
		return nil, ErrAlreadyLeader
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Address = strings.TrimSpace(input.Address)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	request, err := models.NewCreateHouseholdRequest(actor.ID, models.CreateHouseholdPayload{
		Name:    input.Name,
		Address: input.Address,
		Lat:     *input.Lat,
		Long:    *input.Long,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build create request: %w", err)
	}
	if err := s.store.Requests.Create(request); err != nil {
		return nil, fmt.Errorf("failed to create household request: %w", err)
	}

	s.activity.Log(ActivityEntry{
		ActorID:     actorID(actor),
		Action:      "Submitted create request",
		SubjectType: SubjectHouseholdRequest,
		SubjectID:   subjectID(request.ID),
		Metadata:    map[string]interface{}{"name": input.Name},
	})

	return request, nil
}

// Approve applies a pending request. Claiming the request and every side effect share one
// transaction, so a request is applied at most once.
func (s *RequestService) Approve(actor *models.User, requestID uint64) (*models.HouseholdRequest, error) {
	var request *models.HouseholdRequest
	err := s.store.Transaction(func(tx *repository.Store) error {
		var err error
		request, err = loadDecidable(tx, actor, requestID)
		if err != nil {
			return err
		}

		requester, err := tx.Users.FindByID(request.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to find requester: %w", err)
		}

		switch request.Type {
		case models.HouseholdRequestTypeJoin:
			return approveJoin(tx, actor, request, requester)
		case models.HouseholdRequestTypeCreate:
			return approveCreate(tx, actor, request, requester)
		default:
			return fmt.Errorf("unknown household request type %q", request.Type)
		}
	})
	if err != nil {
		return nil, err
	}

	s.activity.Log(ActivityEntry{
		ActorID:     actorID(actor),
		Action:      "Approved request",
		SubjectType: SubjectHouseholdRequest,
		SubjectID:   subjectID(request.ID),
		Metadata: map[string]interface{}{
			"type":         string(request.Type),
			"household_id": *request.HouseholdID,
			"user_id":      request.UserID,
		},
	})

	return request, nil
}

func approveJoin(tx *repository.Store, actor *models.User, request *models.HouseholdRequest, requester *models.User) error {
	if requester.HasRole(models.RoleLeader) {
		return ErrLeaderCannotJoin
	}
	if request.HouseholdID == nil {
		return ErrHouseholdNotFound
	}
	if _, err := tx.Households.FindByID(*request.HouseholdID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHouseholdNotFound
		}
		return fmt.Errorf("failed to find household: %w", err)
	}

	if err := claim(tx, request, models.HouseholdRequestApproved, actor, nil); err != nil {
		return err
	}

	attached, err := tx.Users.AttachMember(requester.ID, *request.HouseholdID)
	if err != nil {
		return fmt.Errorf("failed to attach requester: %w", err)
	}
	if !attached {
		return ErrLeaderCannotJoin
	}
	requester.HouseholdID = request.HouseholdID
	return nil
}

func approveCreate(tx *repository.Store, actor *models.User, request *models.HouseholdRequest, requester *models.User) error {
	if requester.HasRole(models.RoleLeader) {
		return ErrAlreadyLeader
	}
	payload, err := request.CreatePayload()
	if err != nil {
		return fmt.Errorf("failed to read create payload: %w", err)
	}

	household, err := assignLeader(tx, requester, &models.Household{
		Name:    payload.Name,
		Address: payload.Address,
		Lat:     payload.Lat,
		Long:    payload.Long,
		Status:  models.HouseholdStatusSafe,
	})
	if err != nil {
		return err
	}

	return claim(tx, request, models.HouseholdRequestApproved, actor, &household.ID)
}

// Deny closes a pending request without side effects.
func (s *RequestService) Deny(actor *models.User, requestID uint64) (*models.HouseholdRequest, error) {
	var request *models.HouseholdRequest
	err := s.store.Transaction(func(tx *repository.Store) error {
		var err error
		request, err = loadDecidable(tx, actor, requestID)
		if err != nil {
			return err
		}
		return claim(tx, request, models.HouseholdRequestDenied, actor, nil)
	})
	if err != nil {
		return nil, err
	}

	s.activity.Log(ActivityEntry{
		ActorID:     actorID(actor),
		Action:      "Denied request",
		SubjectType: SubjectHouseholdRequest,
		SubjectID:   subjectID(request.ID),
		Metadata:    map[string]interface{}{"type": string(request.Type), "user_id": request.UserID},
	})

	return request, nil
}

// loadDecidable finds a pending request and checks the actor may decide it.
// claim still guards the status write against concurrent deciders.
// Admins decide anything; leaders only join requests for the household they own.
func loadDecidable(tx *repository.Store, actor *models.User, requestID uint64) (*models.HouseholdRequest, error) {
	request, err := tx.Requests.FindByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to find household request: %w", err)
	}
	if !request.IsPending() {
		return nil, ErrRequestNotPending
	}

	if actor.HasRole(models.RoleAdmin) {
		return request, nil
	}
	if !actor.HasRole(models.RoleLeader) || request.Type != models.HouseholdRequestTypeJoin || request.HouseholdID == nil {
		return nil, ErrForbidden
	}

	household, err := tx.Households.FindByLeader(actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("failed to find led household: %w", err)
	}
	if household.ID != *request.HouseholdID {
		return nil, ErrForbidden
	}

	return request, nil
}

// claim moves the request out of pending. It fails with ErrRequestNotPending when another
// decision got there first.
func claim(tx *repository.Store, request *models.HouseholdRequest, status models.HouseholdRequestStatus, actor *models.User, householdID *uint64) error {
	won, err := tx.Requests.Decide(request.ID, repository.Decision{
		Status:      status,
		DecidedByID: actorID(actor),
		HouseholdID: householdID,
	})
	if err != nil {
		return fmt.Errorf("failed to record decision: %w", err)
	}
	if !won {
		return ErrRequestNotPending
	}

	now := time.Now()
	request.Status = status
	request.DecidedByID = actorID(actor)
	request.DecidedAt = &now
	if householdID != nil {
		request.HouseholdID = householdID
	}
	return nil
}

// PendingRequestsInput scopes a pending request listing.
type PendingRequestsInput struct {
	HouseholdID *uint64
	UserID      *uint64
	Type        *models.HouseholdRequestType
	Page        int
	Limit       int
}

// ListPending lists pending requests, newest first.
func (s *RequestService) ListPending(input PendingRequestsInput) ([]models.HouseholdRequest, int64, error) {
	status := models.HouseholdRequestPending
	requests, total, err := s.store.Requests.List(repository.HouseholdRequestFilter{
		HouseholdID: input.HouseholdID,
		UserID:      input.UserID,
		Type:        input.Type,
		Status:      &status,
		Page:        input.Page,
		PageSize:    input.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list household requests: %w", err)
	}
	return requests, total, nil
}
