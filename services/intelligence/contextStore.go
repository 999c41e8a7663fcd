package ai

import (
	"context"
	"encoding/json"
	"time"

	"solarbot/models"

	"github.com/go-redis/redis/v8"
)

const chatContextPrefix = "chat:ctx:"

// ContextStore persists per-thread chat state.
type ContextStore interface {
	Get(ctx context.Context, threadID string) (*models.ChatContext, error)
	Set(ctx context.Context, chat *models.ChatContext) error
	Clear(ctx context.Context, threadID string) error
}

type RedisContextStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisContextStore(client *redis.Client, ttl time.Duration) *RedisContextStore {
	return &RedisContextStore{client: client, ttl: ttl}
}

// Get returns an empty context for unknown threads.
func (s *RedisContextStore) Get(ctx context.Context, threadID string) (*models.ChatContext, error) {
	data, err := s.client.Get(ctx, chatContextPrefix+threadID).Bytes()
	if err == redis.Nil {
		return &models.ChatContext{ThreadID: threadID}, nil
	}
	if err != nil {
		return nil, err
	}
	var chat models.ChatContext
	if err := json.Unmarshal(data, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (s *RedisContextStore) Set(ctx context.Context, chat *models.ChatContext) error {
	b, err := json.Marshal(chat)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, chatContextPrefix+chat.ThreadID, b, s.ttl).Err()
}

func (s *RedisContextStore) Clear(ctx context.Context, threadID string) error {
	return s.client.Del(ctx, chatContextPrefix+threadID).Err()
}
