package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/disaster-response-api/internal/dto"
	"github.com/yukikurage/disaster-response-api/internal/models"
	"github.com/yukikurage/disaster-response-api/internal/services"
)

func (env testEnv) hazardTypeID(t *testing.T, key string) uint64 {
	t.Helper()
	var hazardType models.HazardType
	require.NoError(t, env.db.Where(&models.HazardType{Key: key}).First(&hazardType).Error)
	return hazardType.ID
}

func (env testEnv) pinHazard(t *testing.T, username string, severity int) dto.HazardDTO {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/hazards", map[string]interface{}{
		"description":    "Water over the road",
		"hazard_type_id": env.hazardTypeID(t, "flood"),
		"latitude":       35.0,
		"longitude":      135.0,
		"severity":       severity,
	}, env.login(t, username))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var hazard dto.HazardDTO
	decode(t, w, &hazard)
	return hazard
}

func TestHazardHandler_CreateAndList(t *testing.T) {
	env := setupTestEnv(t)
	reporter := env.signup(t, "reporter")

	hazard := env.pinHazard(t, "reporter", 4)
	assert.Equal(t, models.HazardStatusOpen, hazard.Status)
	assert.Equal(t, reporter.ID, hazard.ReporterID)
	assert.NotEmpty(t, hazard.Title)

	w := env.do(t, http.MethodGet, "/api/hazards", nil, env.login(t, "reporter"))
	require.Equal(t, http.StatusOK, w.Code)

	var list dto.HazardListResponse
	decode(t, w, &list)
	assert.Equal(t, "open", list.Status)
	require.Len(t, list.Hazards, 1)
	assert.Equal(t, hazard.ID, list.Hazards[0].ID)
	assert.Equal(t, int64(1), list.Pagination.Total)
}

func TestHazardHandler_CreateValidation(t *testing.T) {
	env := setupTestEnv(t)
	env.signup(t, "reporter")

	w := env.do(t, http.MethodPost, "/api/hazards", map[string]interface{}{
		"description":    "",
		"hazard_type_id": 9999,
		"latitude":       35.0,
		"longitude":      135.0,
		"severity":       9,
	}, env.login(t, "reporter"))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body errorBody
	decode(t, w, &body)
	assert.Contains(t, body.Details, "severity")
	assert.Contains(t, body.Details, "description")
}

func TestHazardHandler_ListRejectsUnknownStatus(t *testing.T) {
	env := setupTestEnv(t)
	env.signup(t, "reporter")

	w := env.do(t, http.MethodGet, "/api/hazards?status=maybe", nil, env.login(t, "reporter"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHazardHandler_UpdatePermissions(t *testing.T) {
	env := setupTestEnv(t)
	env.signup(t, "reporter")
	env.signup(t, "neighbour")
	hazard := env.pinHazard(t, "reporter", 2)

	path := fmt.Sprintf("/api/hazards/%d", hazard.ID)
	resolve := map[string]string{"status": string(models.HazardStatusResolved)}

	w := env.do(t, http.MethodPatch, path, resolve, env.login(t, "neighbour"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	reporterCookies := env.login(t, "reporter")
	w = env.do(t, http.MethodPatch, path, resolve, reporterCookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPatch, path, map[string]string{"status": string(models.HazardStatusOpen)}, reporterCookies)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodGet, "/api/hazards?status="+services.HazardStatusAll, nil, reporterCookies)
	require.Equal(t, http.StatusOK, w.Code)
	var list dto.HazardListResponse
	decode(t, w, &list)
	assert.Len(t, list.Hazards, 1)
}

func TestHazardHandler_DeleteRequiresAdmin(t *testing.T) {
	env := setupTestEnv(t)
	env.signup(t, "reporter")
	env.signup(t, "root", models.RoleAdmin)
	hazard := env.pinHazard(t, "reporter", 3)

	path := fmt.Sprintf("/api/hazards/%d", hazard.ID)

	w := env.do(t, http.MethodDelete, path, nil, env.login(t, "reporter"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminCookies := env.login(t, "root")
	w = env.do(t, http.MethodDelete, path, nil, adminCookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodDelete, path, nil, adminCookies)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHazardHandler_ListTypes(t *testing.T) {
	env := setupTestEnv(t)
	env.signup(t, "viewer")

	w := env.do(t, http.MethodGet, "/api/hazard-types", nil, env.login(t, "viewer"))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		HazardTypes []dto.HazardTypeDTO `json:"hazard_types"`
	}
	decode(t, w, &body)
	assert.NotEmpty(t, body.HazardTypes)
}
