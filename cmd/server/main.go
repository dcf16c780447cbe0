package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/yukikurage/disaster-response-api/internal/config"
	"github.com/yukikurage/disaster-response-api/internal/constants"
	"github.com/yukikurage/disaster-response-api/internal/database"
	"github.com/yukikurage/disaster-response-api/internal/handlers"
	"github.com/yukikurage/disaster-response-api/internal/logging"
	"github.com/yukikurage/disaster-response-api/internal/repository"
	"github.com/yukikurage/disaster-response-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.GinMode,
		}); err != nil {
			logger.Error("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	r := gin.New()
	r.Use(logging.RequestID(), logging.RequestLogger(logger), gin.Recovery())
	if cfg.SentryDSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	sessionStore, err := newSessionStore(cfg)
	if err != nil {
		logger.Fatal("failed to create session store", zap.Error(err))
	}
	r.Use(sessions.Sessions(constants.SessionCookieName, sessionStore))

	store := repository.NewStore(database.GetDB())
	activity := services.NewActivityLogger(store.ActivityLogs, logger)
	authService := services.NewAuthService(store.Users)

	handlers.RegisterRoutes(r, handlers.Handlers{
		Auth: handlers.NewAuthHandler(authService),
		Households: handlers.NewHouseholdHandler(
			services.NewHouseholdService(store, activity),
			services.NewViewService(store),
		),
		HouseholdRequests: handlers.NewHouseholdRequestHandler(services.NewRequestService(store, activity)),
		Hazards: handlers.NewHazardHandler(
			services.NewHazardService(store, activity, newNotifier(cfg, logger), logger, cfg.AppURL),
		),
		ActivityLogs: handlers.NewActivityLogHandler(activity),
		Dashboard:    handlers.NewDashboardHandler(services.NewDashboardService(store)),
	}, store.Users)

	// Start server
	logger.Info("server starting", zap.String("addr", cfg.ServerAddr))
	if err := r.Run(cfg.ServerAddr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

// newSessionStore picks the Redis or signed-cookie backend from SESSION_STORE.
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	if cfg.SessionStore == "cookie" {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	} else {
		rs, err := redisStore.NewStore(
			10,    // Redis pool size
			"tcp", // network type
			cfg.RedisAddr(),
			"", // username (empty for default user)
			"", // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, err
		}
		store = rs
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

// newNotifier publishes hazard alerts on Redis, falling back to log output when Redis is unreachable.
func newNotifier(cfg *config.Config, logger *zap.Logger) services.Notifier {
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr()})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, hazard alerts will only be logged", zap.Error(err))
		_ = client.Close()
		return services.NewLogNotifier(logger)
	}

	return services.NewRedisNotifier(client, cfg.HazardAlertChannel, logger)
}
