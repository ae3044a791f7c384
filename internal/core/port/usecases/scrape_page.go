package usecases_port

import (
	"context"

	"centris-scraper-service/internal/core/domain"
)

type ScrapePagePort interface {
	Execute(ctx context.Context, pageNumber int) ([]domain.PropertyRecord, error)
}
