package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/disaster-response-api/internal/middleware"
	"github.com/yukikurage/disaster-response-api/internal/models"
	"github.com/yukikurage/disaster-response-api/internal/repository"
)

// Handlers bundles every HTTP handler mounted by RegisterRoutes.
type Handlers struct {
	Auth              *AuthHandler
	Households        *HouseholdHandler
	HouseholdRequests *HouseholdRequestHandler
	Hazards           *HazardHandler
	ActivityLogs      *ActivityLogHandler
	Dashboard         *DashboardHandler
}

// RegisterRoutes mounts the API on r. Session middleware must already be installed.
func RegisterRoutes(r *gin.Engine, h Handlers, users repository.UserRepository) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Disaster Response API is running",
		})
	})

	api := r.Group("/api")

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(), h.Auth.GetCurrentUser)
	}

	// Everything below needs a loaded user
	protected := api.Group("")
	protected.Use(middleware.RequireAuth(), middleware.LoadCurrentUser(users))

	admin := middleware.RequireRole(models.RoleAdmin)
	adminOrLeader := middleware.RequireRole(models.RoleAdmin, models.RoleLeader)

	protected.GET("/dashboard", h.Dashboard.Stats)
	protected.GET("/map", h.Dashboard.Map)
	protected.GET("/hazard-types", h.Hazards.ListTypes)

	hazards := protected.Group("/hazards")
	{
		hazards.GET("", h.Hazards.List)
		hazards.POST("", h.Hazards.Create)
		hazards.PATCH("/:id", h.Hazards.Update)
		hazards.DELETE("/:id", admin, h.Hazards.Delete)
	}

	households := protected.Group("/households")
	{
		households.GET("", h.Households.View)
		households.POST("", admin, h.Households.Create)
		households.PATCH("/:id", admin, h.Households.Update)
		households.DELETE("/:id", admin, h.Households.Delete)
		households.PATCH("/:id/status", h.Households.ChangeStatus)
		households.POST("/requests/join", h.HouseholdRequests.RequestJoin)
		households.POST("/requests/create", h.HouseholdRequests.RequestCreate)
	}

	requests := protected.Group("/household-requests", adminOrLeader)
	{
		requests.POST("/:id/approve", h.HouseholdRequests.Approve)
		requests.POST("/:id/deny", h.HouseholdRequests.Deny)
	}

	protected.DELETE("/household-members/:user_id", middleware.RequireRole(models.RoleLeader), h.Households.RemoveMember)

	protected.GET("/admin/activity-logs", admin, h.ActivityLogs.List)
}
