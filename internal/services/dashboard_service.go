package services

import (
	"fmt"

	"github.com/yukikurage/disaster-response-api/internal/models"
	"github.com/yukikurage/disaster-response-api/internal/repository"
)

// HouseholdStats counts households overall and per status.
type HouseholdStats struct {
	Total    int64                            `json:"total"`
	ByStatus map[models.HouseholdStatus]int64 `json:"by_status"`
}

// HazardTypeStats counts hazards of one type by status.
type HazardTypeStats struct {
	HazardTypeID uint64 `json:"hazard_type_id"`
	Key          string `json:"key"`
	Name         string `json:"name"`
	Color        string `json:"color"`
	Open         int64  `json:"open"`
	Resolved     int64  `json:"resolved"`
}

// DashboardStats is the summary shown on the dashboard.
type DashboardStats struct {
	Households HouseholdStats    `json:"households"`
	Hazards    []HazardTypeStats `json:"hazards"`
}

// MapData holds everything drawn on the map.
type MapData struct {
	Hazards     []models.Hazard     `json:"hazards"`
	HazardTypes []models.HazardType `json:"hazard_types"`
	Households  []models.Household  `json:"households"`
}

// DashboardService builds read-only summaries.
type DashboardService struct {
	store *repository.Store
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(store *repository.Store) *DashboardService {
	return &DashboardService{store: store}
}

// Stats counts households per status and hazards per type and status.
func (s *DashboardService) Stats() (*DashboardStats, error) {
	byStatus, err := s.store.Households.CountByStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to count households: %w", err)
	}
	var total int64
	for _, n := range byStatus {
		total += n
	}

	types, err := s.store.Hazards.ListTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to list hazard types: %w", err)
	}
	counts, err := s.store.Hazards.CountByType()
	if err != nil {
		return nil, fmt.Errorf("failed to count hazards: %w", err)
	}

	index := make(map[uint64]int, len(types))
	hazards := make([]HazardTypeStats, len(types))
	for i, t := range types {
		index[t.ID] = i
		hazards[i] = HazardTypeStats{HazardTypeID: t.ID, Key: t.Key, Name: t.Name, Color: t.Color}
	}
	for _, c := range counts {
		i, ok := index[c.HazardTypeID]
		if !ok {
			continue
		}
		switch c.Status {
		case models.HazardStatusOpen:
			hazards[i].Open += c.Count
		case models.HazardStatusResolved:
			hazards[i].Resolved += c.Count
		}
	}

	return &DashboardStats{
		Households: HouseholdStats{Total: total, ByStatus: byStatus},
		Hazards:    hazards,
	}, nil
}

// MapData returns open hazards, every hazard type and every household.
func (s *DashboardService) MapData() (*MapData, error) {
	open := models.HazardStatusOpen
	hazards, _, err := s.store.Hazards.List(repository.HazardFilter{Status: &open})
	if err != nil {
		return nil, fmt.Errorf("failed to list open hazards: %w", err)
	}

	types, err := s.store.Hazards.ListTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to list hazard types: %w", err)
	}

	households, err := s.store.Households.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list households: %w", err)
	}

	return &MapData{
		Hazards:     hazards,
		HazardTypes: types,
		Households:  households,
	}, nil
}
