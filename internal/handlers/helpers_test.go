package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/disaster-response-api/internal/constants"
	"github.com/yukikurage/disaster-response-api/internal/database"
	"github.com/yukikurage/disaster-response-api/internal/models"
	"github.com/yukikurage/disaster-response-api/internal/repository"
	"github.com/yukikurage/disaster-response-api/internal/services"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "supersecret"

type testEnv struct {
	db          *gorm.DB
	store       *repository.Store
	router      *gin.Engine
	authService *services.AuthService
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	require.NoError(t, database.SeedHazardTypes(db))

	log := zap.NewNop()
	store := repository.NewStore(db)
	activity := services.NewActivityLogger(store.ActivityLogs, log)
	authService := services.NewAuthService(store.Users)

	h := Handlers{
		Auth:              NewAuthHandler(authService),
		Households:        NewHouseholdHandler(services.NewHouseholdService(store, activity), services.NewViewService(store)),
		HouseholdRequests: NewHouseholdRequestHandler(services.NewRequestService(store, activity)),
		Hazards:           NewHazardHandler(services.NewHazardService(store, activity, services.NewLogNotifier(log), log, "")),
		ActivityLogs:      NewActivityLogHandler(activity),
		Dashboard:         NewDashboardHandler(services.NewDashboardService(store)),
	}

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	RegisterRoutes(r, h, store.Users)

	return testEnv{
		db:          db,
		store:       store,
		router:      r,
		authService: authService,
	}
}

// signup creates a user with the given roles through the auth service.
func (env testEnv) signup(t *testing.T, username string, roles ...models.Role) *models.User {
	t.Helper()
	user, err := env.authService.Signup(services.SignupInput{Username: username, Password: testPassword})
	require.NoError(t, err)

	if len(roles) > 0 {
		user.Roles = models.NewRoleSet(roles...)
		require.NoError(t, env.store.Users.UpdateMembership(user.ID, user.HouseholdID, user.Roles))
	}
	return user
}

func (env testEnv) login(t *testing.T, username string) []*http.Cookie {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": testPassword,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")
	return cookies
}

func (env testEnv) do(t *testing.T, method, path string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}
