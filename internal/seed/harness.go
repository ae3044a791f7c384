package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	logger_adapter "centris-scraper-service/internal/adapters/logger"
	mongodb_adapter "centris-scraper-service/internal/adapters/mongodb"
	"centris-scraper-service/internal/configs"
	"centris-scraper-service/internal/core/port"
	"centris-scraper-service/pkg/mongodb"
)

const defaultSeedCount = 40

// RunMongoHarness наполняет хранилище тестовыми объектами и выходит.
// Используется как разовый запуск для проверки подключения и индексов.
func RunMongoHarness() error {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading application configuration: %w", err)
	}

	logger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    slog.LevelDebug,
		IsJSON:   false,
		UseColor: true,
	}).WithFields(port.Fields{"component": "seed_harness"})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongodb.NewClient(ctx, mongodb.Config{URI: appConfig.Mongo.URI})
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Error("Error disconnecting MongoDB client", err, nil)
		}
	}()
	logger.Info("Successfully connected to MongoDB!", nil)

	storage := mongodb_adapter.NewPropertyStorageAdapter(client, appConfig.Mongo.Database, appConfig.Mongo.Collection)
	if err := storage.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to ensure MongoDB indexes: %w", err)
	}

	records := GenerateProperties(defaultSeedCount)
	inserted, err := storage.InsertNew(ctx, records)
	if err != nil {
		return fmt.Errorf("failed to insert seed records: %w", err)
	}

	total, err := storage.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count stored records: %w", err)
	}

	logger.Info("Seed harness finished", port.Fields{
		"generated": len(records),
		"inserted":  inserted,
		"skipped":   len(records) - inserted,
		"total":     total,
	})
	return nil
}
