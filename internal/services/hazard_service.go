package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yukikurage/disaster-response-api/internal/models"
	"github.com/yukikurage/disaster-response-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HazardStatusAll disables the status filter when listing hazards.
const HazardStatusAll = "all"

// HazardService manages reported hazards.
type HazardService struct {
	store    *repository.Store
	activity *ActivityLogger
	notifier Notifier
	logger   *zap.Logger
	appURL   string
}

// NewHazardService creates a new HazardService.
func NewHazardService(store *repository.Store, activity *ActivityLogger, notifier Notifier, logger *zap.Logger, appURL string) *HazardService {
	return &HazardService{
		store:    store,
		activity: activity,
		notifier: notifier,
		logger:   logger,
		appURL:   strings.TrimRight(appURL, "/"),
	}
}

// CreateHazardInput represents a new hazard report.
type CreateHazardInput struct {
	Title        string   `json:"title" validate:"max=120"`
	Description  string   `json:"description" validate:"required,max=255"`
	HazardTypeID uint64   `json:"hazard_type_id" validate:"required"`
	Latitude     *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude    *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Severity     *int     `json:"severity" validate:"required,gte=1,lte=5"`
}

// CreateHazard persists an open hazard and alerts every user with an email address.
// Notification failures are logged, never returned.
func (s *HazardService) CreateHazard(ctx context.Context, actor *models.User, input CreateHazardInput) (*models.Hazard, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	hazardType, err := s.store.Hazards.FindTypeByID(input.HazardTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newFieldError("hazard_type_id", "is invalid")
		}
		return nil, fmt.Errorf("failed to find hazard type: %w", err)
	}

	hazard := &models.Hazard{
		UserID:       actor.ID,
		HazardTypeID: hazardType.ID,
		Title:        input.Title,
		Description:  input.Description,
		Latitude:     *input.Latitude,
		Longitude:    *input.Longitude,
		Severity:     *input.Severity,
		Status:       models.HazardStatusOpen,
	}
	if err := s.store.Hazards.Create(hazard); err != nil {
		return nil, fmt.Errorf("failed to create hazard: %w", err)
	}
	hazard.HazardType = *hazardType
	hazard.User = *actor

	s.notify(ctx, hazard)

	s.activity.Log(ActivityEntry{
		ActorID:     actorID(actor),
		Action:      "Hazard pinned",
		SubjectType: SubjectHazard,
		SubjectID:   subjectID(hazard.ID),
		Metadata: map[string]interface{}{
			"hazard_type": hazardType.Key,
			"severity":    hazard.Severity,
		},
	})

	return hazard, nil
}

func (s *HazardService) notify(ctx context.Context, hazard *models.Hazard) {
	users, err := s.store.Users.ListWithEmail()
	if err != nil {
		s.logger.Error("failed to load hazard alert recipients", zap.Uint64("hazard_id", hazard.ID), zap.Error(err))
		return
	}

	recipients := make([]Recipient, 0, len(users))
	for _, u := range users {
		recipients = append(recipients, Recipient{UserID: u.ID, Name: u.Name, Email: *u.Email})
	}

	alert := HazardAlert{
		ID:          uuid.NewString(),
		HazardID:    hazard.ID,
		Title:       hazard.DisplayTitle(),
		Description: hazard.Description,
		HazardType:  hazard.HazardType.Name,
		Severity:    hazard.Severity,
		Latitude:    hazard.Latitude,
		Longitude:   hazard.Longitude,
		ReportedBy:  hazard.User.Name,
		ReportedAt:  hazard.CreatedAt,
	}
	if s.appURL != "" {
		alert.URL = fmt.Sprintf("%s/hazards/%d", s.appURL, hazard.ID)
	}

	if err := s.notifier.NotifyHazardReported(ctx, alert, recipients); err != nil {
		s.logger.Error("failed to send hazard alert",
			zap.Uint64("hazard_id", hazard.ID),
			zap.Int("recipients", len(recipients)),
			zap.Error(err),
		)
	}
}

// UpdateHazardInput holds a partial hazard update. Nil fields are left unchanged.
type UpdateHazardInput struct {
	Title       *string              `json:"title" validate:"omitnil,max=120"`
	Description *string              `json:"description" validate:"omitnil,min=1,max=255"`
	Severity    *int                 `json:"severity" validate:"omitnil,gte=1,lte=5"`
	Status      *models.HazardStatus `json:"status" validate:"omitnil,oneof=open resolved"`
}

// CanModifyHazard reports whether actor may update hazard: its reporter or an admin.
func CanModifyHazard(actor *models.User, hazard *models.Hazard) bool {
	return actor.HasRole(models.RoleAdmin) || hazard.UserID == actor.ID
}

// UpdateHazard applies a partial update. Resolved is terminal.
func (s *HazardService) UpdateHazard(actor *models.User, id uint64, input UpdateHazardInput) (*models.Hazard, error) {
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		input.Title = &title
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		input.Description = &description
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	hazard, err := s.findHazard(id)
	if err != nil {
		return nil, err
	}
	if !CanModifyHazard(actor, hazard) {
		return nil, ErrForbidden
	}

	previous := hazard.Status
	if input.Status != nil {
		if previous == models.HazardStatusResolved && *input.Status == models.HazardStatusOpen {
			return nil, ErrHazardResolved
		}
		hazard.Status = *input.Status
	}
	if input.Title != nil {
		hazard.Title = *input.Title
	}
	if input.Description != nil {
		hazard.Description = *input.Description
	}
	if input.Severity != nil {
		hazard.Severity = *input.Severity
	}

	if err := s.store.Hazards.Update(hazard); err != nil {
		return nil, fmt.Errorf("failed to update hazard: %w", err)
	}

	s.activity.Log(ActivityEntry{
		ActorID:     actorID(actor),
		Action:      "Hazard status updated",
		SubjectType: SubjectHazard,
		SubjectID:   subjectID(hazard.ID),
		Metadata:    map[string]interface{}{"from": string(previous), "to": string(hazard.Status)},
	})

	return hazard, nil
}

// DeleteHazard soft deletes a hazard. Admin only, independent of status.
func (s *HazardService) DeleteHazard(actor *models.User, id uint64) error {
	if !actor.HasRole(models.RoleAdmin) {
		return ErrForbidden
	}

	hazard, err := s.findHazard(id)
	if err != nil {
		return err
	}
	if err := s.store.Hazards.Delete(hazard.ID); err != nil {
		return fmt.Errorf("failed to delete hazard: %w", err)
	}

	s.activity.Log(ActivityEntry{
		ActorID:     actorID(actor),
		Action:      "Hazard deleted",
		SubjectType: SubjectHazard,
		SubjectID:   subjectID(hazard.ID),
		Metadata:    map[string]interface{}{"title": hazard.DisplayTitle()},
	})

	return nil
}

// ListHazardsInput holds the hazard listing filters. An empty status means open.
type ListHazardsInput struct {
	Status string
	Page   int
	Limit  int
}

// ListHazards lists hazards newest first.
func (s *HazardService) ListHazards(input ListHazardsInput) ([]models.Hazard, int64, error) {
	filter := repository.HazardFilter{Page: input.Page, PageSize: input.Limit}

	switch input.Status {
	case HazardStatusAll:
	case "":
		open := models.HazardStatusOpen
		filter.Status = &open
	case string(models.HazardStatusOpen), string(models.HazardStatusResolved):
		status := models.HazardStatus(input.Status)
		filter.Status = &status
	default:
		return nil, 0, newFieldError("status", "must be one of: open, resolved, all")
	}

	hazards, total, err := s.store.Hazards.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list hazards: %w", err)
	}
	return hazards, total, nil
}

// ListHazardTypes lists every hazard type.
func (s *HazardService) ListHazardTypes() ([]models.HazardType, error) {
	types, err := s.store.Hazards.ListTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to list hazard types: %w", err)
	}
	return types, nil
}

func (s *HazardService) findHazard(id uint64) (*models.Hazard, error) {
	hazard, err := s.store.Hazards.FindByID(id, "HazardType")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHazardNotFound
		}
		return nil, fmt.Errorf("failed to find hazard: %w", err)
	}
	return hazard, nil
}
