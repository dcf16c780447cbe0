package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/disaster-response-api/internal/models"
	"github.com/yukikurage/disaster-response-api/internal/repository"
	"gorm.io/gorm"
)

// HouseholdService manages the household lifecycle and keeps leader roles in sync with ownership.
type HouseholdService struct {
	store    *repository.Store
	activity *ActivityLogger
}

// NewHouseholdService creates a new HouseholdService.
func NewHouseholdService(store *repository.Store, activity *ActivityLogger) *HouseholdService {
	return &HouseholdService{
		store:    store,
		activity: activity,
	}
}

// CreateHouseholdInput represents parameters to create a household on behalf of an owner.
type CreateHouseholdInput struct {
	Name    string                 `json:"name" validate:"required,max=255"`
	Address string                 `json:"address" validate:"required"`
	Lat     *float64               `json:"lat" validate:"required,gte=-90,lte=90"`
	Long    *float64               `json:"long" validate:"required,gte=-180,lte=180"`
	Status  models.HouseholdStatus `json:"status" validate:"omitempty,oneof=safe at_risk need_rescue evacuated"`
	OwnerID uint64                 `json:"owner_id" validate:"required"`
}

// CreateHousehold creates a household, attaches the owner and makes them its leader.
func (s *HouseholdService) CreateHousehold(actor *models.User, input CreateHouseholdInput) (*models.Household, error) {
	if !actor.HasRole(models.RoleAdmin) {
		return nil, ErrForbidden
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Address = strings.TrimSpace(input.Address)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if input.Status == "" {
		input.Status = models.HouseholdStatusSafe
	}

	var household *models.Household
	err := s.store.Transaction(func(tx *repository.Store) error {
		owner, err := tx.Users.FindByID(input.OwnerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to find owner: %w", err)
		}
		if owner.HasRole(models.RoleLeader) {
			return ErrAlreadyLeader
		}

		household = &models.Household{
			Name:    input.Name,
			Address: input.Address,
			Lat:     *input.Lat,
			Long:    *input.Long,
			Status:  input.Status,
		}
		household, err = assignLeader(tx, owner, household)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.activity.Log(ActivityEntry{
		ActorID:     actorID(actor),
		Action:      "Household created",
		SubjectType: SubjectHousehold,
		SubjectID:   subjectID(household.ID),
		Metadata:    map[string]interface{}{"name": household.Name, "owner_id": *household.UserID},
	})

	return household, nil
}

// assignLeader persists household owned by owner and replaces the owner's roles with {leader}.
// It fails with ErrAlreadyLeader when the stored owner row already holds the leader role.
func assignLeader(tx *repository.Store, owner *models.User, household *models.Household) (*models.Household, error) {
	household.UserID = &owner.ID
	if err := tx.Households.Create(household); err != nil {
		return nil, fmt.Errorf("failed to create household: %w", err)
	}

	promoted, err := tx.Users.PromoteToLeader(owner.ID, household.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to promote household owner: %w", err)
	}
	if !promoted {
		// owner became a leader after it was read
		return nil, ErrAlreadyLeader
	}
	owner.HouseholdID = &household.ID
	owner.Roles = models.NewRoleSet(models.RoleLeader)
	household.Leader = owner

	return household, nil
}

// UpdateHouseholdInput holds a partial household update. Nil fields are left unchanged.
type UpdateHouseholdInput struct {
	Name    *string                 `json:"name" validate:"omitnil,min=1,max=255"`
	Address *string                 `json:"address" validate:"omitnil,min=1"`
	Lat     *float64                `json:"lat" validate:"omitnil,gte=-90,lte=90"`
	Long    *float64                `json:"long" validate:"omitnil,gte=-180,lte=180"`
	Status  *models.HouseholdStatus `json:"status" validate:"omitnil,oneof=safe at_risk need_rescue evacuated"`
}

// UpdateHousehold applies a partial update. Roles are never touched.
func (s *HouseholdService) UpdateHousehold(actor *models.User, id uint64, input UpdateHouseholdInput) (*models.Household, error) {
	if !actor.HasRole(models.RoleAdmin) {
		return nil, ErrForbidden
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		input.Name = &name
	}
	if input.Address != nil {
		address := strings.TrimSpace(*input.Address)
		input.Address = &address
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	household, err := s.findHousehold(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		household.Name = *input.Name
	}
	if input.Address != nil {
		household.Address = *input.Address
	}
	if input.Lat != nil {
		household.Lat = *input.Lat
	}
	if input.Long != nil {
		household.Long = *input.Long
	}
	if input.Status != nil {
		household.Status = *input.Status
	}

	if err := s.store.Households.Update(household); err != nil {
		return nil, fmt.Errorf("failed to update household: %w", err)
	}

	s.activity.Log(ActivityEntry{
		ActorID:     actorID(actor),
		Action:      "Household updated",
		SubjectType: SubjectHousehold,
		SubjectID:   subjectID(household.ID),
	})

	return household, nil
}

// DeleteHousehold detaches every member, demotes the leader and then removes the household.
func (s *HouseholdService) DeleteHousehold(actor *models.User, id uint64) error {
	if !actor.HasRole(models.RoleAdmin) {
		return ErrForbidden
	}

	var name string
	var detached int
	err := s.store.Transaction(func(tx *repository.Store) error {
		household, err := tx.Households.FindByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHouseholdNotFound
			}
			return fmt.Errorf("failed to find household: %w", err)
		}
		name = household.Name

		members, err := tx.Users.ListByHousehold(id)
		if err != nil {
			return fmt.Errorf("failed to list household members: %w", err)
		}
		for _, member := range members {
			if err := tx.Users.UpdateMembership(member.ID, nil, member.Roles.Demoted()); err != nil {
				return fmt.Errorf("failed to detach member %d: %w", member.ID, err)
			}
		}
		detached = len(members)

		if err := tx.Households.Delete(id); err != nil {
			return fmt.Errorf("failed to delete household: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.activity.Log(ActivityEntry{
		ActorID:     actorID(actor),
		Action:      "Household deleted",
		SubjectType: SubjectHousehold,
		SubjectID:   subjectID(id),
		Metadata:    map[string]interface{}{"name": name, "detached_members": detached},
	})

	return nil
}

// ChangeStatus sets the household status. Admins, the owning leader and members of the
// household may do this; any status can move to any other.
func (s *HouseholdService) ChangeStatus(actor *models.User, id uint64, status models.HouseholdStatus) (*models.Household, error) {
	if !validHouseholdStatus(status) {
		return nil, newFieldError("status", "must be one of: safe, at_risk, need_rescue, evacuated")
	}

	household, err := s.findHousehold(id)
	if err != nil {
		return nil, err
	}

	if !canChangeHouseholdStatus(actor, household) {
		return nil, ErrForbidden
	}

	previous := household.Status
	household.Status = status
	if err := s.store.Households.Update(household); err != nil {
		return nil, fmt.Errorf("failed to update household status: %w", err)
	}

	s.activity.Log(ActivityEntry{
		ActorID:     actorID(actor),
		Action:      "Changed household status",
		SubjectType: SubjectHousehold,
		SubjectID:   subjectID(household.ID),
		Metadata:    map[string]interface{}{"from": string(previous), "to": string(status)},
	})

	return household, nil
}

func canChangeHouseholdStatus(actor *models.User, household *models.Household) bool {
	switch {
	case actor.HasRole(models.RoleAdmin):
		return true
	case actor.HasRole(models.RoleLeader) && household.UserID != nil && *household.UserID == actor.ID:
		return true
	default:
		return actor.BelongsTo(household.ID)
	}
}

func validHouseholdStatus(status models.HouseholdStatus) bool {
	for _, s := range models.HouseholdStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// RemoveMember detaches a member from the acting leader's household.
func (s *HouseholdService) RemoveMember(actor *models.User, targetUserID uint64) error {
	if !actor.HasRole(models.RoleLeader) {
		return ErrForbidden
	}
	if actor.ID == targetUserID {
		return ErrCannotRemoveYourself
	}

	var householdID uint64
	err := s.store.Transaction(func(tx *repository.Store) error {
		household, err := tx.Households.FindByLeader(actor.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrForbidden
			}
			return fmt.Errorf("failed to find led household: %w", err)
		}
		householdID = household.ID

		target, err := tx.Users.FindByID(targetUserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMemberNotFound
			}
			return fmt.Errorf("failed to find member: %w", err)
		}
		if !target.BelongsTo(household.ID) {
			return ErrMemberNotFound
		}

		if err := tx.Users.UpdateMembership(target.ID, nil, target.Roles.Demoted()); err != nil {
			return fmt.Errorf("failed to remove member: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.activity.Log(ActivityEntry{
		ActorID:     actorID(actor),
		Action:      "Member removed",
		SubjectType: SubjectUser,
		SubjectID:   subjectID(targetUserID),
		Metadata:    map[string]interface{}{"household_id": householdID},
	})

	return nil
}

func (s *HouseholdService) findHousehold(id uint64, preload ...string) (*models.Household, error) {
	household, err := s.store.Households.FindByID(id, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHouseholdNotFound
		}
		return nil, fmt.Errorf("failed to find household: %w", err)
	}
	return household, nil
}
