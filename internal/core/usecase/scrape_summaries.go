package usecase

import (
	"context"
	"fmt"

	"centris-scraper-service/internal/contextkeys"
	"centris-scraper-service/internal/core/domain"
	"centris-scraper-service/internal/core/port"
)

// ScrapeSummariesUseCase собирает облегченные карточки выдачи без посещения
// страниц деталей. Работает синхронно, в одной сессии на цель.
type ScrapeSummariesUseCase struct {
	scraper port.PropertyScraperPort
	targets []domain.ScrapeTarget
}

func NewScrapeSummariesUseCase(scraper port.PropertyScraperPort, targets []domain.ScrapeTarget) *ScrapeSummariesUseCase {
	return &ScrapeSummariesUseCase{scraper: scraper, targets: targets}
}

func (uc *ScrapeSummariesUseCase) Execute(ctx context.Context, maxPages int) ([]domain.ListingSummary, error) {
	logger := contextkeys.LoggerFromContext(ctx)

	if maxPages < 1 {
		return nil, fmt.Errorf("maxPages must be positive, got %d", maxPages)
	}

	var all []domain.ListingSummary
	for _, target := range uc.targets {
		summaries, err := uc.scraper.ScrapeSummaries(ctx, target, maxPages)
		if err != nil {
			return all, fmt.Errorf("failed to collect summaries for %s: %w", target.Category, err)
		}
		all = append(all, summaries...)
	}

	logger.Info("Summary scrape finished", port.Fields{"count": len(all)})
	return all, nil
}
