package services

import (
	"context"
	"sync"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/disaster-response-api/internal/database"
	"github.com/yukikurage/disaster-response-api/internal/models"
	"github.com/yukikurage/disaster-response-api/internal/repository"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// serviceSuite wires every service against a fresh in-memory database per test.
type serviceSuite struct {
	suite.Suite

	db       *gorm.DB
	store    *repository.Store
	logs     *observer.ObservedLogs
	notifier *recordingNotifier

	activity   *ActivityLogger
	households *HouseholdService
	requests   *RequestService
	views      *ViewService
	hazards    *HazardService
	dashboard  *DashboardService
}

func (s *serviceSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	s.Require().NoError(err)

	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	s.Require().NoError(db.AutoMigrate(models.AllModels()...))
	s.Require().NoError(database.SeedHazardTypes(db))

	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	s.db = db
	s.store = repository.NewStore(db)
	s.logs = logs
	s.notifier = &recordingNotifier{}

	s.activity = NewActivityLogger(s.store.ActivityLogs, log)
	s.households = NewHouseholdService(s.store, s.activity)
	s.requests = NewRequestService(s.store, s.activity)
	s.views = NewViewService(s.store)
	s.hazards = NewHazardService(s.store, s.activity, s.notifier, log, "https://alerts.example.org/")
	s.dashboard = NewDashboardService(s.store)
}

func (s *serviceSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

func (s *serviceSuite) createUser(username string, roles ...models.Role) *models.User {
	user := &models.User{
		Username:     username,
		Name:         username,
		PasswordHash: "hashed",
		Roles:        models.NewRoleSet(roles...),
	}
	s.Require().NoError(s.store.Users.Create(user))
	return user
}

func (s *serviceSuite) createUserWithEmail(username, email string, roles ...models.Role) *models.User {
	user := &models.User{
		Username:     username,
		Name:         username,
		Email:        &email,
		PasswordHash: "hashed",
		Roles:        models.NewRoleSet(roles...),
	}
	s.Require().NoError(s.store.Users.Create(user))
	return user
}

func (s *serviceSuite) reloadUser(id uint64) *models.User {
	user, err := s.store.Users.FindByID(id)
	s.Require().NoError(err)
	return user
}

// createLedHousehold creates a household through the admin path so roles are synced.
func (s *serviceSuite) createLedHousehold(admin *models.User, name string, owner *models.User) *models.Household {
	lat, long := 14.6, 121.0
	household, err := s.households.CreateHousehold(admin, CreateHouseholdInput{
		Name:    name,
		Address: name + " street",
		Lat:     &lat,
		Long:    &long,
		OwnerID: owner.ID,
	})
	s.Require().NoError(err)
	*owner = *s.reloadUser(owner.ID)
	return household
}

// attach makes user a plain member of household.
func (s *serviceSuite) attach(user *models.User, householdID uint64) {
	s.Require().NoError(s.store.Users.UpdateMembership(user.ID, &householdID, user.Roles))
	*user = *s.reloadUser(user.ID)
}

func (s *serviceSuite) activityActions() []string {
	var logs []models.ActivityLog
	s.Require().NoError(s.db.Order("id").Find(&logs).Error)
	actions := make([]string, len(logs))
	for i, l := range logs {
		actions[i] = l.Action
	}
	return actions
}

func (s *serviceSuite) hazardType(key string) models.HazardType {
	var hazardType models.HazardType
	s.Require().NoError(s.db.Where(&models.HazardType{Key: key}).First(&hazardType).Error)
	return hazardType
}

type notification struct {
	alert      HazardAlert
	recipients []Recipient
}

type recordingNotifier struct {
	mu    sync.Mutex
	sent  []notification
	fails error
}

func (n *recordingNotifier) NotifyHazardReported(_ context.Context, alert HazardAlert, recipients []Recipient) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fails != nil {
		return n.fails
	}
	n.sent = append(n.sent, notification{alert: alert, recipients: recipients})
	return nil
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
