package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver           string
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	RedisHost          string
	RedisPort          string
	SessionSecret      string
	SessionStore       string
	GinMode            string
	LogLevel           string
	SentryDSN          string
	HazardAlertChannel string
	AppURL             string
	ServerAddr         string
}

func Load() *Config {
	// .env is optional; real environment variables always win
	_ = godotenv.Load()

	return &Config{
		DBDriver:           getEnv("DB_DRIVER", "mysql"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "3306"),
		DBUser:             getEnv("DB_USER", "disaster"),
		DBPassword:         getEnv("DB_PASSWORD", "disasterpassword"),
		DBName:             getEnv("DB_NAME", "disaster_response"),
		RedisHost:          getEnv("REDIS_HOST", "localhost"),
		RedisPort:          getEnv("REDIS_PORT", "6379"),
		SessionSecret:      getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		SessionStore:       getEnv("SESSION_STORE", "redis"),
		GinMode:            getEnv("GIN_MODE", "debug"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		SentryDSN:          getEnv("SENTRY_DSN", ""),
		HazardAlertChannel: getEnv("HAZARD_ALERT_CHANNEL", "hazard-alerts"),
		AppURL:             getEnv("APP_URL", "http://localhost:8080"),
		ServerAddr:         getEnv("SERVER_ADDR", ":8080"),
	}
}

// RedisAddr returns host:port for the Redis server
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
