package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks

const eventQueueKey = "dispatch_events"

// AssignmentEvent - событие назначения машины на инцидент для внешних
// подписчиков
type AssignmentEvent struct {
	IncidentID  string    `json:"incidentId"`
	AmbulanceID string    `json:"ambulanceId"`
	Severity    string    `json:"severity"`
	AssignedAt  time.Time `json:"assignedAt"`
}

// EventPublisher - интерфейс для публикации событий назначения
type EventPublisher interface {
	Publish(ctx context.Context, event AssignmentEvent) error
}

// RedisEventPublisher - реализация EventPublisher, использующая Redis
type RedisEventPublisher struct {
	redisClient *redis.Client
}

// NewRedisEventPublisher создает новый RedisEventPublisher
func NewRedisEventPublisher(client *redis.Client) *RedisEventPublisher {
	return &RedisEventPublisher{
		redisClient: client,
	}
}

// Publish публикует событие назначения в очередь Redis
func (p *RedisEventPublisher) Publish(ctx context.Context, event AssignmentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal assignment event: %w", err)
	}

	// LPUSH кладет событие в левую часть списка (очереди)
	if err := p.redisClient.LPush(ctx, eventQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish assignment event to Redis: %w", err)
	}
	return nil
}
