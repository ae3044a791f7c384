package usecase

import (
	"context"
	"fmt"
	"time"

	"centris-scraper-service/internal/contextkeys"
	"centris-scraper-service/internal/core/port"
)

const publishGap = 100 * time.Millisecond

// EnqueueScrapeRunUseCase раскладывает запуск обхода на команды по одной странице
type EnqueueScrapeRunUseCase struct {
	queue port.ScrapeTaskQueuePort
}

func NewEnqueueScrapeRunUseCase(queue port.ScrapeTaskQueuePort) *EnqueueScrapeRunUseCase {
	return &EnqueueScrapeRunUseCase{queue: queue}
}

// Execute публикует команды для страниц 1..maxPages.
// Возвращает количество опубликованных команд.
func (uc *EnqueueScrapeRunUseCase) Execute(ctx context.Context, maxPages int) (int, error) {
	logger := contextkeys.LoggerFromContext(ctx)

	if maxPages < 1 {
		return 0, fmt.Errorf("maxPages must be positive, got %d", maxPages)
	}

	published := 0
	for page := 1; page <= maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return published, err
		}
		if err := uc.queue.EnqueuePage(ctx, page); err != nil {
			return published, fmt.Errorf("failed to enqueue page %d: %w", page, err)
		}
		published++
		logger.Debug("Enqueued scrape page command", port.Fields{"page": page})

		// Пауза между публикациями
		if page < maxPages {
			time.Sleep(publishGap)
		}
	}

	logger.Info("Scrape run enqueued", port.Fields{"pages": published})
	return published, nil
}
