package repository

import (
	"github.com/yukikurage/disaster-response-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email address
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateMembership sets a user's household reference and role set
func (r *GormUserRepository) UpdateMembership(userID uint64, householdID *uint64, roles models.RoleSet) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"household_id": householdID,
			"roles":        roles,
		}).Error
}

// notLeader restricts an update to rows not holding the leader role at write time.
func notLeader(db *gorm.DB) *gorm.DB {
	return db.Where("roles NOT LIKE ?", "%"+string(models.RoleLeader)+"%")
}

// PromoteToLeader sets household_id and roles {leader} on a user that is not yet a leader
func (r *GormUserRepository) PromoteToLeader(userID, householdID uint64) (bool, error) {
	result := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Scopes(notLeader).
		Updates(map[string]interface{}{
			"household_id": householdID,
			"roles":        models.NewRoleSet(models.RoleLeader),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// AttachMember sets household_id on a user that is not a leader
func (r *GormUserRepository) AttachMember(userID, householdID uint64) (bool, error) {
	result := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Scopes(notLeader).
		Update("household_id", householdID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ListByHousehold lists the members of a household
func (r *GormUserRepository) ListByHousehold(householdID uint64) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("household_id = ?", householdID).
		Order("name, id").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListUnassignedMembers lists users holding the member role without a household
func (r *GormUserRepository) ListUnassignedMembers() ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("household_id IS NULL").
		Where("roles LIKE ?", "%"+string(models.RoleMember)+"%").
		Order("name, id").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListWithEmail lists every user that has an email address
func (r *GormUserRepository) ListWithEmail() ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("email IS NOT NULL AND email <> ''").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// CountMembers counts members per household for the given household IDs
func (r *GormUserRepository) CountMembers(householdIDs []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(householdIDs))
	if len(householdIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		HouseholdID uint64
		Total       int64
	}
	if err := r.db.Model(&models.User{}).
		Select("household_id, COUNT(*) AS total").
		Where("household_id IN ?", householdIDs).
		Group("household_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.HouseholdID] = row.Total
	}
	return counts, nil
}
