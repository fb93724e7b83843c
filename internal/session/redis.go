// Package session хранит сессии пользователей в Redis: один ключ на токен,
// значение - пользователь без пароля, срок жизни ограничен TTL.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/ambulance_dispatch_system/internal/models"
	"github.com/shenikar/ambulance_dispatch_system/internal/service"
)

type RedisStore struct {
	redisClient *redis.Client
}

func NewRedisStore(client *redis.Client) service.SessionStore {
	return &RedisStore{
		redisClient: client,
	}
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// Save сохраняет сессию с ограниченным сроком жизни
func (s *RedisStore) Save(ctx context.Context, token string, user models.User, ttl time.Duration) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal session user: %w", err)
	}

	if err := s.redisClient.Set(ctx, sessionKey(token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Get возвращает пользователя сессии или service.ErrSessionNotFound
func (s *RedisStore) Get(ctx context.Context, token string) (*models.User, error) {
	val, err := s.redisClient.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, service.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	user := &models.User{}
	if err := json.Unmarshal(val, user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session user: %w", err)
	}
	return user, nil
}

// Delete закрывает сессию
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.redisClient.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
