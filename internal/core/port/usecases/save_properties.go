package usecases_port

import (
	"context"

	"centris-scraper-service/internal/core/domain"
	"centris-scraper-service/internal/core/port"
)

type SavePropertiesPort interface {
	Execute(ctx context.Context, records []domain.PropertyRecord) (port.UpsertStats, error)
}
