package port

import (
	"context"

	"centris-scraper-service/internal/core/domain"
)

// PropertyScraperPort определяет контракт для извлечения данных из браузерной сессии
type PropertyScraperPort interface {
	// ScrapePage доводит сессию до нужной страницы выдачи и собирает полные
	// записи со всех страниц деталей этой страницы.
	ScrapePage(ctx context.Context, task domain.ScrapePageTask) ([]domain.PropertyRecord, error)

	// ScrapeSummaries собирает облегченные карточки первых maxPages страниц
	// выдачи, не заходя на страницы деталей.
	ScrapeSummaries(ctx context.Context, target domain.ScrapeTarget, maxPages int) ([]domain.ListingSummary, error)
}
