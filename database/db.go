package database

import (
	"context"
	"fmt"
	"time"

	"solarbot/config"
	"solarbot/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoClient is the global MongoDB client instance. It stays nil when
// DATABASE_URL is not configured.
var MongoClient *mongo.Client

// InitDB connects to MongoDB. An empty DATABASE_URL disables lead persistence.
func InitDB() error {
	if config.AppConfig.DatabaseURL == "" {
		utils.GetLogger().Warn("DATABASE_URL not set, lead persistence disabled")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.AppConfig.DatabaseURL))
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	MongoClient = client
	utils.GetLogger().Info("Connected to MongoDB", zap.String("database", DatabaseName()))
	return nil
}

func DatabaseName() string {
	if config.AppConfig.DatabaseName == "" {
		return "solarbot"
	}
	return config.AppConfig.DatabaseName
}

func Disconnect(ctx context.Context) error {
	if MongoClient == nil {
		return nil
	}
	return MongoClient.Disconnect(ctx)
}
