package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"centris-scraper-service/internal/core/domain"
)

// RunHistoryAdapter реализует RunHistoryPort поверх PostgreSQL
type RunHistoryAdapter struct {
	pool *pgxpool.Pool
}

func NewRunHistoryAdapter(pool *pgxpool.Pool) *RunHistoryAdapter {
	return &RunHistoryAdapter{pool: pool}
}

// EnsureSchema создает таблицу журнала, если ее еще нет
func (a *RunHistoryAdapter) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS scrape_runs (
			id            BIGSERIAL PRIMARY KEY,
			run_id        UUID        NOT NULL,
			page_number   INT         NOT NULL,
			category      TEXT        NOT NULL,
			records_found INT         NOT NULL,
			status        TEXT        NOT NULL,
			error_message TEXT        NOT NULL DEFAULT '',
			started_at    TIMESTAMPTZ NOT NULL,
			finished_at   TIMESTAMPTZ NOT NULL
		)`
	if _, err := a.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create scrape_runs table: %w", err)
	}
	return nil
}

// RecordRun пишет итог обработки одной страницы
func (a *RunHistoryAdapter) RecordRun(ctx context.Context, report domain.RunReport) error {
	query := `
		INSERT INTO scrape_runs (run_id, page_number, category, records_found, status, error_message, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := a.pool.Exec(ctx, query,
		report.RunID,
		report.PageNumber,
		string(report.Category),
		report.RecordsFound,
		report.Status,
		report.ErrorMessage,
		report.StartedAt,
		report.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run report: %w", err)
	}
	return nil
}
