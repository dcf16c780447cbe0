package handlers

import (
	"errors"
	"fmt"
	"strconv"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/disaster-response-api/internal/constants"
	apierrors "github.com/yukikurage/disaster-response-api/internal/errors"
	"github.com/yukikurage/disaster-response-api/internal/middleware"
	"github.com/yukikurage/disaster-response-api/internal/models"
	"github.com/yukikurage/disaster-response-api/internal/services"
)

// respondServiceError maps service errors onto API error responses.
func respondServiceError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		apierrors.ValidationFailed(c, verr.Fields)
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrHouseholdNotFound),
		errors.Is(err, services.ErrRequestNotFound),
		errors.Is(err, services.ErrHazardNotFound),
		errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrRequestNotPending),
		errors.Is(err, services.ErrDuplicatePendingRequest),
		errors.Is(err, services.ErrLeaderCannotJoin),
		errors.Is(err, services.ErrAlreadyLeader),
		errors.Is(err, services.ErrHazardResolved),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrCannotRemoveYourself):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c)
	default:
		_ = c.Error(err)
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		apierrors.InternalError(c, "")
	}
}

// currentUser returns the loaded session user or writes a 401.
func currentUser(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return nil, false
	}
	return user, true
}

// parseIDParam parses a numeric path parameter or writes a 400.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}
