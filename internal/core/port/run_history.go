package port

import (
	"context"

	"centris-scraper-service/internal/core/domain"
)

// RunHistoryPort определяет контракт для журнала запусков
type RunHistoryPort interface {
	RecordRun(ctx context.Context, report domain.RunReport) error
}
