package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Mongo     bool      `json:"mongo"`
	Redis     []bool    `json:"redis"`
	Calendar  bool      `json:"calendar"`
	CheckedAt time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

func setHealthStatus(h HealthStatus) {
	mu.Lock()
	currentHealth = h
	mu.Unlock()
}

// StartHealthMonitor performs periodic health checks and updates in-memory state.
// mongoClient may be nil when lead persistence is disabled; calendarReady
// reports whether a calendar credential was acquired at startup.
func StartHealthMonitor(ctx context.Context, redisClients []*redis.Client, mongoClient *mongo.Client, calendarReady bool) {
	check := func() {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		var redisHealth []bool
		for _, client := range redisClients {
			redisHealth = append(redisHealth, client.Ping(pingCtx).Err() == nil)
		}

		mongoHealthy := mongoClient != nil && mongoClient.Ping(pingCtx, nil) == nil

		setHealthStatus(HealthStatus{
			Mongo:     mongoHealthy,
			Redis:     redisHealth,
			Calendar:  calendarReady,
			CheckedAt: time.Now(),
		})
	}

	go func() {
		check()
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				check()
			}
		}
	}()
}
