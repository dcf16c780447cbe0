package dto

import (
	"time"

	"github.com/yukikurage/disaster-response-api/internal/models"
	"github.com/yukikurage/disaster-response-api/internal/services"
	"github.com/yukikurage/disaster-response-api/internal/utils"
)

// HazardTypeDTO represents a hazard type in API responses
type HazardTypeDTO struct {
	ID    uint64 `json:"id"`
	Key   string `json:"key"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// HazardDTO represents a hazard in API responses
type HazardDTO struct {
	ID           uint64              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Latitude     float64             `json:"latitude"`
	Longitude    float64             `json:"longitude"`
	Severity     int                 `json:"severity"`
	Status       models.HazardStatus `json:"status"`
	HazardTypeID uint64              `json:"hazard_type_id"`
	HazardType   *HazardTypeDTO      `json:"hazard_type,omitempty"`
	ReporterID   uint64              `json:"reporter_id"`
	Reporter     *UserDTO            `json:"reporter,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// HazardListResponse represents a paginated list of hazards
type HazardListResponse struct {
	Hazards    []HazardDTO              `json:"hazards"`
	Status     string                   `json:"status"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// MapDataDTO holds everything drawn on the map
type MapDataDTO struct {
	Hazards     []HazardDTO     `json:"hazards"`
	HazardTypes []HazardTypeDTO `json:"hazard_types"`
	Households  []HouseholdDTO  `json:"households"`
}

// ToHazardTypeDTO converts a HazardType model to DTO
func ToHazardTypeDTO(hazardType models.HazardType) HazardTypeDTO {
	return HazardTypeDTO{
		ID:    hazardType.ID,
		Key:   hazardType.Key,
		Name:  hazardType.Name,
		Color: hazardType.Color,
	}
}

// ToHazardTypeDTOs converts a slice of hazard types
func ToHazardTypeDTOs(types []models.HazardType) []HazardTypeDTO {
	out := make([]HazardTypeDTO, len(types))
	for i, t := range types {
		out[i] = ToHazardTypeDTO(t)
	}
	return out
}

// ToHazardDTO converts a Hazard model to DTO
func ToHazardDTO(hazard models.Hazard) HazardDTO {
	out := HazardDTO{
		ID:           hazard.ID,
		Title:        hazard.DisplayTitle(),
		Description:  hazard.Description,
		Latitude:     hazard.Latitude,
		Longitude:    hazard.Longitude,
		Severity:     hazard.Severity,
		Status:       hazard.Status,
		HazardTypeID: hazard.HazardTypeID,
		ReporterID:   hazard.UserID,
		CreatedAt:    hazard.CreatedAt,
		UpdatedAt:    hazard.UpdatedAt,
	}

	if hazard.HazardType.ID != 0 {
		hazardType := ToHazardTypeDTO(hazard.HazardType)
		out.HazardType = &hazardType
	}
	if hazard.User.ID != 0 {
		reporter := ToUserDTO(hazard.User)
		out.Reporter = &reporter
	}

	return out
}

// ToHazardDTOs converts a slice of hazards
func ToHazardDTOs(hazards []models.Hazard) []HazardDTO {
	out := make([]HazardDTO, len(hazards))
	for i, h := range hazards {
		out[i] = ToHazardDTO(h)
	}
	return out
}

// ToMapDataDTO converts map data
func ToMapDataDTO(data services.MapData) MapDataDTO {
	return MapDataDTO{
		Hazards:     ToHazardDTOs(data.Hazards),
		HazardTypes: ToHazardTypeDTOs(data.HazardTypes),
		Households:  ToHouseholdDTOs(data.Households),
	}
}
