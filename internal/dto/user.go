package dto

import (
	"github.com/yukikurage/disaster-response-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID          uint64         `json:"id"`
	Username    string         `json:"username"`
	Name        string         `json:"name"`
	Email       *string        `json:"email,omitempty"`
	Roles       models.RoleSet `json:"roles"`
	HouseholdID *uint64        `json:"household_id"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	roles := user.Roles
	if roles == nil {
		roles = models.RoleSet{}
	}
	return UserDTO{
		ID:          user.ID,
		Username:    user.Username,
		Name:        user.Name,
		Email:       user.Email,
		Roles:       roles,
		HouseholdID: user.HouseholdID,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}
