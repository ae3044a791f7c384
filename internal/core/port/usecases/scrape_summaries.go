package usecases_port

import (
	"context"

	"centris-scraper-service/internal/core/domain"
)

type ScrapeSummariesPort interface {
	Execute(ctx context.Context, maxPages int) ([]domain.ListingSummary, error)
}
