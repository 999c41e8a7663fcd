package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"solarbot/config"
	"solarbot/models"
	"solarbot/services/tasks"
	"solarbot/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// LeadCapturer handles one lead:capture payload.
type LeadCapturer interface {
	Capture(ctx context.Context, p models.LeadPayload) (*models.Lead, error)
}

func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitLeadWorker starts the lead capture worker in the background and returns
// the server so the caller can shut it down.
func InitLeadWorker(capturer LeadCapturer) *asynq.Server {
	logger := utils.GetLogger().With(zap.String("component", "leadWorker"))

	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeLeadCapture, handleLeadTask(capturer, logger))

	go func() {
		logger.Info("Starting lead worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("Lead worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("Lead worker disabled after max retry attempts")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

func handleLeadTask(capturer LeadCapturer, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.LeadPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid lead payload", zap.Error(err))
			return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
		}

		logger.Info("Capturing lead", zap.String("eventID", p.EventID), zap.String("threadID", p.ThreadID))
		if _, err := capturer.Capture(ctx, p); err != nil {
			logger.Warn("Lead capture failed", zap.String("eventID", p.EventID), zap.Error(err))
			return err
		}
		return nil
	}
}
