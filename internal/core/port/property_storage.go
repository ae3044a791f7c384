package port

import (
	"context"

	"centris-scraper-service/internal/core/domain"
)

// UpsertStats - итог пакетной записи
type UpsertStats struct {
	Inserted int
	Updated  int
}

// PropertyStoragePort определяет контракт для хранилища объектов недвижимости
type PropertyStoragePort interface {
	// Upsert записывает пакет по натуральному ключу mlsNumber: существующий
	// документ замещается целиком, отсутствующий вставляется. Записи без
	// mlsNumber вставляются как новые.
	Upsert(ctx context.Context, records []domain.PropertyRecord) (UpsertStats, error)

	// InsertNew вставляет только записи, чьих mlsNumber еще нет в хранилище
	InsertNew(ctx context.Context, records []domain.PropertyRecord) (int, error)

	// Count возвращает количество документов в хранилище
	Count(ctx context.Context) (int64, error)
}
