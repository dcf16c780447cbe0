package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Recipient is a user that should hear about a new hazard.
type Recipient struct {
	UserID uint64 `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// HazardAlert is the notification payload for a newly reported hazard.
type HazardAlert struct {
	ID          string    `json:"id"`
	HazardID    uint64    `json:"hazard_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	HazardType  string    `json:"hazard_type"`
	Severity    int       `json:"severity"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	ReportedBy  string    `json:"reported_by"`
	URL         string    `json:"url,omitempty"`
	ReportedAt  time.Time `json:"reported_at"`
}

// Notifier fans a hazard alert out to recipients.
type Notifier interface {
	NotifyHazardReported(ctx context.Context, alert HazardAlert, recipients []Recipient) error
}

// Publisher is the subset of the redis client used by RedisNotifier.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisNotifier publishes alerts on a Redis channel; a mail worker subscribes and delivers them.
type RedisNotifier struct {
	client  Publisher
	channel string
	logger  *zap.Logger
}

// NewRedisNotifier creates a new RedisNotifier.
func NewRedisNotifier(client Publisher, channel string, logger *zap.Logger) *RedisNotifier {
	return &RedisNotifier{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

type hazardAlertMessage struct {
	Alert      HazardAlert `json:"alert"`
	Recipients []Recipient `json:"recipients"`
}

// NotifyHazardReported publishes one message per alert carrying every recipient.
func (n *RedisNotifier) NotifyHazardReported(ctx context.Context, alert HazardAlert, recipients []Recipient) error {
	if len(recipients) == 0 {
		return nil
	}

	payload, err := json.Marshal(hazardAlertMessage{Alert: alert, Recipients: recipients})
	if err != nil {
		return fmt.Errorf("failed to encode hazard alert: %w", err)
	}

	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish hazard alert: %w", err)
	}

	n.logger.Info("hazard alert published",
		zap.String("alert_id", alert.ID),
		zap.Uint64("hazard_id", alert.HazardID),
		zap.String("channel", n.channel),
		zap.Int("recipients", len(recipients)),
	)
	return nil
}

// LogNotifier only logs alerts. Used when Redis is not configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a new LogNotifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// NotifyHazardReported logs one line per recipient.
func (n *LogNotifier) NotifyHazardReported(_ context.Context, alert HazardAlert, recipients []Recipient) error {
	for _, r := range recipients {
		n.logger.Info("hazard alert",
			zap.String("alert_id", alert.ID),
			zap.Uint64("hazard_id", alert.HazardID),
			zap.String("title", alert.Title),
			zap.String("email", r.Email),
		)
	}
	return nil
}
