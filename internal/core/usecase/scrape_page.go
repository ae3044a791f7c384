package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"centris-scraper-service/internal/contextkeys"
	"centris-scraper-service/internal/core/domain"
	"centris-scraper-service/internal/core/port"
	usecases_port "centris-scraper-service/internal/core/port/usecases"
	"centris-scraper-service/pkg/retry"
)

// ScrapePageUseCase обрабатывает одну страницу выдачи по всем целям обхода.
// Каждая цель идет в своей браузерной сессии, с ретраями на уровне страницы.
type ScrapePageUseCase struct {
	scraper    port.PropertyScraperPort
	saver      usecases_port.SavePropertiesPort
	runHistory port.RunHistoryPort // может быть nil, тогда журнал не ведется
	targets    []domain.ScrapeTarget
	retryCfg   retry.Config
}

func NewScrapePageUseCase(
	scraper port.PropertyScraperPort,
	saver usecases_port.SavePropertiesPort,
	runHistory port.RunHistoryPort,
	targets []domain.ScrapeTarget,
	retryCfg retry.Config,
) *ScrapePageUseCase {
	return &ScrapePageUseCase{
		scraper:    scraper,
		saver:      saver,
		runHistory: runHistory,
		targets:    targets,
		retryCfg:   retryCfg,
	}
}

// Execute собирает записи страницы pageNumber по всем целям и сохраняет их
// одним пакетом. Ошибка возвращается только когда не удалась ни одна цель
// или упало сохранение.
func (uc *ScrapePageUseCase) Execute(ctx context.Context, pageNumber int) ([]domain.PropertyRecord, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"page": pageNumber})
	runID := uuid.New()

	var collected []domain.PropertyRecord
	var firstErr error

	for _, target := range uc.targets {
		targetLogger := logger.WithFields(port.Fields{"category": string(target.Category)})
		task := domain.ScrapePageTask{PageNumber: pageNumber, Target: target}
		startedAt := time.Now()

		var records []domain.PropertyRecord
		err := retry.Do(ctx, uc.retryCfg, func(attempt int, delay time.Duration, attemptErr error) {
			targetLogger.Warn("Page scrape attempt failed, will retry", port.Fields{
				"attempt": attempt,
				"delay":   delay.String(),
				"error":   attemptErr.Error(),
			})
		}, func() error {
			var scrapeErr error
			records, scrapeErr = uc.scraper.ScrapePage(ctx, task)
			return scrapeErr
		})

		report := domain.RunReport{
			RunID:        runID,
			PageNumber:   pageNumber,
			Category:     target.Category,
			RecordsFound: len(records),
			Status:       domain.RunStatusCompleted,
			StartedAt:    startedAt,
			FinishedAt:   time.Now(),
		}

		if err != nil {
			targetLogger.Error("Failed to scrape page after all attempts", err, nil)
			if firstErr == nil {
				firstErr = err
			}
			report.Status = domain.RunStatusFailed
			report.ErrorMessage = err.Error()
			uc.recordRun(ctx, targetLogger, report)
			continue
		}

		targetLogger.Info("Page scraped", port.Fields{"records": len(records)})
		collected = append(collected, records...)
		uc.recordRun(ctx, targetLogger, report)
	}

	if len(collected) > 0 {
		stats, err := uc.saver.Execute(ctx, collected)
		if err != nil {
			return collected, fmt.Errorf("failed to save scraped records: %w", err)
		}
		logger.Info("Scraped records saved", port.Fields{
			"inserted": stats.Inserted,
			"updated":  stats.Updated,
		})
	}

	if firstErr != nil && len(collected) == 0 {
		return nil, firstErr
	}
	return collected, nil
}

func (uc *ScrapePageUseCase) recordRun(ctx context.Context, logger port.LoggerPort, report domain.RunReport) {
	if uc.runHistory == nil {
		return
	}
	if err := uc.runHistory.RecordRun(ctx, report); err != nil {
		logger.Warn("Failed to record run report", port.Fields{"error": err.Error()})
	}
}
