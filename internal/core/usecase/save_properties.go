package usecase

import (
	"context"
	"fmt"

	"centris-scraper-service/internal/contextkeys"
	"centris-scraper-service/internal/core/domain"
	"centris-scraper-service/internal/core/port"
)

// SavePropertiesUseCase сохраняет пакет записей в хранилище по натуральному ключу
type SavePropertiesUseCase struct {
	storage port.PropertyStoragePort
}

func NewSavePropertiesUseCase(storage port.PropertyStoragePort) *SavePropertiesUseCase {
	return &SavePropertiesUseCase{storage: storage}
}

func (uc *SavePropertiesUseCase) Execute(ctx context.Context, records []domain.PropertyRecord) (port.UpsertStats, error) {
	logger := contextkeys.LoggerFromContext(ctx)

	if len(records) == 0 {
		logger.Debug("Nothing to save", nil)
		return port.UpsertStats{}, nil
	}

	stats, err := uc.storage.Upsert(ctx, records)
	if err != nil {
		return stats, fmt.Errorf("failed to upsert records: %w", err)
	}

	logger.Info("Records saved", port.Fields{
		"inserted": stats.Inserted,
		"updated":  stats.Updated,
		"total":    len(records),
	})
	return stats, nil
}
