package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/disaster-response-api/internal/constants"
	"github.com/yukikurage/disaster-response-api/internal/dto"
	"github.com/yukikurage/disaster-response-api/internal/models"
	"github.com/yukikurage/disaster-response-api/internal/services"
)

func TestAuthHandler_Signup(t *testing.T) {
	env := setupTestEnv(t)

	payload := map[string]string{
		"username": "newuser",
		"password": "supersecret",
		"email":    "newuser@example.org",
	}
	w := env.do(t, http.MethodPost, "/api/auth/signup", payload, nil)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDTO
	decode(t, w, &response)
	require.Equal(t, payload["username"], response.Username)
	require.True(t, response.Roles.Equal(models.NewRoleSet(models.RoleMember)))
	require.Nil(t, response.HouseholdID)
}

func TestAuthHandler_SignupConflicts(t *testing.T) {
	env := setupTestEnv(t)
	env.signup(t, "taken")

	w := env.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": "taken",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": "shorty",
		"password": "123",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupTestEnv(t)
	env.signup(t, "existing")

	cookies := env.login(t, "existing")

	w := env.do(t, http.MethodGet, "/api/auth/me", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	decode(t, w, &response)
	require.Equal(t, "existing", response.Username)

	w = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "existing",
		"password": "wrong-password",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := setupTestEnv(t)

	user, err := env.authService.Signup(services.SignupInput{
		Username: "current-user",
		Password: "supersecret",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(constants.ContextKeyUserID, user.ID)

	NewAuthHandler(env.authService).GetCurrentUser(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	decode(t, w, &response)
	require.Equal(t, user.Username, response.Username)
}

func TestAuthHandler_Logout(t *testing.T) {
	env := setupTestEnv(t)
	env.signup(t, "leaving")
	cookies := env.login(t, "leaving")

	w := env.do(t, http.MethodPost, "/api/auth/logout", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/auth/me", nil, w.Result().Cookies())
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
