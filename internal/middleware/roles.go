package middleware

import (
	"errors"
	"strconv"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/disaster-response-api/internal/constants"
	apierrors "github.com/yukikurage/disaster-response-api/internal/errors"
	"github.com/yukikurage/disaster-response-api/internal/models"
	"github.com/yukikurage/disaster-response-api/internal/repository"
	"gorm.io/gorm"
)

// LoadCurrentUser loads the session user into the context. Must run after RequireAuth.
func LoadCurrentUser(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		user, err := users.FindByID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// The account is gone; drop the stale session.
				_ = EndSession(c)
				apierrors.Unauthorized(c, "")
				return
			}
			apierrors.InternalError(c, "Failed to load user")
			return
		}

		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.Scope().SetUser(sentry.User{
				ID:       strconv.FormatUint(user.ID, 10),
				Username: user.Username,
			})
		}

		c.Set(constants.ContextKeyCurrentUser, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by LoadCurrentUser.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyCurrentUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}

// RequireRole aborts with 403 unless the current user holds at least one of roles.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		if !user.Roles.HasAny(roles...) {
			apierrors.Forbidden(c, "")
			return
		}

		c.Next()
	}
}
