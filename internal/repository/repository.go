package repository

import (
	"github.com/yukikurage/disaster-response-api/internal/database"
	"github.com/yukikurage/disaster-response-api/internal/models"
	"github.com/yukikurage/disaster-response-api/internal/utils"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email address
	FindByEmail(email string) (*models.User, error)

	// UpdateMembership sets a user's household reference and role set
	UpdateMembership(userID uint64, householdID *uint64, roles models.RoleSet) error

	// PromoteToLeader makes the user leader of householdID unless the stored row already
	// holds the leader role. It reports whether the row was changed.
	PromoteToLeader(userID, householdID uint64) (bool, error)

	// AttachMember sets the user's household, keeping roles, unless the stored row holds
	// the leader role. It reports whether the row was changed.
	AttachMember(userID, householdID uint64) (bool, error)

	// ListByHousehold lists the members of a household
	ListByHousehold(householdID uint64) ([]models.User, error)

	// ListUnassignedMembers lists users holding the member role without a household
	ListUnassignedMembers() ([]models.User, error)

	// ListWithEmail lists every user that has an email address
	ListWithEmail() ([]models.User, error)

	// CountMembers counts members per household for the given household IDs
	CountMembers(householdIDs []uint64) (map[uint64]int64, error)
}

// HouseholdFilter holds filtering options for listing households
type HouseholdFilter struct {
	Status   *models.HouseholdStatus
	Page     int
	PageSize int
}

// HouseholdOption is the minimal projection used for join selection
type HouseholdOption struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// HouseholdRepository defines the interface for household data access
type HouseholdRepository interface {
	// Create creates a new household
	Create(household *models.Household) error

	// FindByID finds a household by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Household, error)

	// FindByLeader finds the household owned by a leader
	FindByLeader(userID uint64, preload ...string) (*models.Household, error)

	// Update saves the household columns without touching associations
	Update(household *models.Household) error

	// Delete soft deletes a household
	Delete(id uint64) error

	// List retrieves households with filtering and pagination, newest first
	List(filter HouseholdFilter) ([]models.Household, int64, error)

	// ListAll retrieves every household
	ListAll() ([]models.Household, error)

	// ListOptions retrieves id and name of every household ordered by name
	ListOptions() ([]HouseholdOption, error)

	// CountByStatus counts households per status
	CountByStatus() (map[models.HouseholdStatus]int64, error)
}

// HouseholdRequestFilter holds filtering options for listing household requests
type HouseholdRequestFilter struct {
	HouseholdID *uint64
	UserID      *uint64
	Type        *models.HouseholdRequestType
	Status      *models.HouseholdRequestStatus
	Page        int
	PageSize    int
}

// HouseholdRequestRepository defines the interface for household request data access
type HouseholdRequestRepository interface {
	// Create creates a new request
	Create(request *models.HouseholdRequest) error

	// FindByID finds a request by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.HouseholdRequest, error)

	// Decide moves a pending request to a terminal status. It reports false when the
	// request was no longer pending, in which case nothing is written.
	Decide(id uint64, decision Decision) (bool, error)

	// ExistsPendingJoin reports whether a pending join request exists for the pair
	ExistsPendingJoin(userID, householdID uint64) (bool, error)

	// List retrieves requests with filtering and pagination, newest first
	List(filter HouseholdRequestFilter) ([]models.HouseholdRequest, int64, error)
}

// HazardFilter holds filtering options for listing hazards
type HazardFilter struct {
	Status   *models.HazardStatus
	Page     int
	PageSize int
}

// HazardTypeCount is a per-type, per-status hazard tally
type HazardTypeCount struct {
	HazardTypeID uint64              `json:"hazard_type_id"`
	Status       models.HazardStatus `json:"status"`
	Count        int64               `json:"count"`
}

// HazardRepository defines the interface for hazard data access
type HazardRepository interface {
	// Create creates a new hazard
	Create(hazard *models.Hazard) error

	// FindByID finds a hazard by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Hazard, error)

	// Update saves the hazard columns without touching associations
	Update(hazard *models.Hazard) error

	// Delete soft deletes a hazard
	Delete(id uint64) error

	// List retrieves hazards with filtering and pagination, newest first
	List(filter HazardFilter) ([]models.Hazard, int64, error)

	// CountByType tallies hazards per type and status
	CountByType() ([]HazardTypeCount, error)

	// FindTypeByID finds a hazard type by ID
	FindTypeByID(id uint64) (*models.HazardType, error)

	// ListTypes lists all hazard types ordered by name
	ListTypes() ([]models.HazardType, error)
}

// ActivityLogFilter holds filtering options for listing activity logs
type ActivityLogFilter struct {
	Action   string
	UserID   *uint64
	Page     int
	PageSize int
}

// ActivityLogRepository defines the interface for activity log data access.
// There is deliberately no update or delete.
type ActivityLogRepository interface {
	// Create appends a log entry
	Create(entry *models.ActivityLog) error

	// List retrieves entries with filtering and pagination, newest first
	List(filter ActivityLogFilter) ([]models.ActivityLog, int64, error)
}

// Store bundles the repositories that share one connection or transaction
type Store struct {
	db *gorm.DB

	Users        UserRepository
	Households   HouseholdRepository
	Requests     HouseholdRequestRepository
	Hazards      HazardRepository
	ActivityLogs ActivityLogRepository
}

// NewStore creates a Store whose repositories all use db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:           db,
		Users:        NewUserRepository(db),
		Households:   NewHouseholdRepository(db),
		Requests:     NewHouseholdRequestRepository(db),
		Hazards:      NewHazardRepository(db),
		ActivityLogs: NewActivityLogRepository(db),
	}
}

// Transaction runs fn against a Store bound to a single database transaction.
// Any error returned by fn rolls the transaction back.
func (s *Store) Transaction(fn func(tx *Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// paginate applies offset/limit when both page and size are set
func paginate(query *gorm.DB, page, pageSize int) *gorm.DB {
	if page > 0 && pageSize > 0 {
		return query.Scopes(database.Paginate(utils.NewPaginationParams(page, pageSize)))
	}
	return query
}

// withPreload applies the requested preloads
func withPreload(query *gorm.DB, preload []string) *gorm.DB {
	for _, p := range preload {
		query = query.Preload(p)
	}
	return query
}
