// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"solarbot/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient caches solar estimates.
	CacheClient *redis.Client
	// ChatContextClient holds per-thread conversation context.
	ChatContextClient *redis.Client
)

func newRedisClient(db int, name string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", name, err)
	}
	return client
}

// InitCache initializes the generic Redis cache client.
func InitCache() {
	CacheClient = newRedisClient(config.AppConfig.RedisCacheDB, "Cache")
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitChatContextCache initializes the Redis client for conversation context.
func InitChatContextCache() {
	ChatContextClient = newRedisClient(config.AppConfig.RedisChatDB, "Chat Context")
}

// GetChatContextClient returns the Redis client for conversation context.
func GetChatContextClient() *redis.Client {
	if ChatContextClient == nil {
		InitChatContextCache()
	}
	return ChatContextClient
}
