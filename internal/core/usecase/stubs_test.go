package usecase

import (
	"context"

	"centris-scraper-service/internal/core/domain"
	"centris-scraper-service/internal/core/port"
)

// Стабы портов для тестов. Функции-поля позволяют каждому тесту
// задавать свое поведение без отдельных типов.

type stubScraper struct {
	scrapePageFn      func(ctx context.Context, task domain.ScrapePageTask) ([]domain.PropertyRecord, error)
	scrapeSummariesFn func(ctx context.Context, target domain.ScrapeTarget, maxPages int) ([]domain.ListingSummary, error)
}

func (s *stubScraper) ScrapePage(ctx context.Context, task domain.ScrapePageTask) ([]domain.PropertyRecord, error) {
	return s.scrapePageFn(ctx, task)
}

func (s *stubScraper) ScrapeSummaries(ctx context.Context, target domain.ScrapeTarget, maxPages int) ([]domain.ListingSummary, error) {
	return s.scrapeSummariesFn(ctx, target, maxPages)
}

type stubStorage struct {
	upserted [][]domain.PropertyRecord
	upsertFn func(ctx context.Context, records []domain.PropertyRecord) (port.UpsertStats, error)
}

func (s *stubStorage) Upsert(ctx context.Context, records []domain.PropertyRecord) (port.UpsertStats, error) {
	s.upserted = append(s.upserted, records)
	if s.upsertFn != nil {
		return s.upsertFn(ctx, records)
	}
	return port.UpsertStats{Inserted: len(records)}, nil
}

func (s *stubStorage) InsertNew(ctx context.Context, records []domain.PropertyRecord) (int, error) {
	return len(records), nil
}

func (s *stubStorage) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

// keyedStorage хранит документы в памяти с семантикой Upsert по mlsNumber:
// документ с существующим ключом замещается, без ключа всегда вставляется.
type keyedStorage struct {
	byMLS   map[string]domain.PropertyRecord
	unkeyed []domain.PropertyRecord
}

func newKeyedStorage() *keyedStorage {
	return &keyedStorage{byMLS: map[string]domain.PropertyRecord{}}
}

func (s *keyedStorage) Upsert(ctx context.Context, records []domain.PropertyRecord) (port.UpsertStats, error) {
	var stats port.UpsertStats
	for _, rec := range records {
		if rec.MLSNumber == "" {
			s.unkeyed = append(s.unkeyed, rec)
			stats.Inserted++
			continue
		}
		if _, ok := s.byMLS[rec.MLSNumber]; ok {
			stats.Updated++
		} else {
			stats.Inserted++
		}
		s.byMLS[rec.MLSNumber] = rec
	}
	return stats, nil
}

func (s *keyedStorage) InsertNew(ctx context.Context, records []domain.PropertyRecord) (int, error) {
	inserted := 0
	for _, rec := range records {
		if _, ok := s.byMLS[rec.MLSNumber]; ok {
			continue
		}
		s.byMLS[rec.MLSNumber] = rec
		inserted++
	}
	return inserted, nil
}

func (s *keyedStorage) Count(ctx context.Context) (int64, error) {
	return int64(len(s.byMLS) + len(s.unkeyed)), nil
}

type stubQueue struct {
	pages     []int
	enqueueFn func(ctx context.Context, pageNumber int) error
}

func (s *stubQueue) EnqueuePage(ctx context.Context, pageNumber int) error {
	if s.enqueueFn != nil {
		if err := s.enqueueFn(ctx, pageNumber); err != nil {
			return err
		}
	}
	s.pages = append(s.pages, pageNumber)
	return nil
}

type stubRunHistory struct {
	reports []domain.RunReport
}

func (s *stubRunHistory) RecordRun(ctx context.Context, report domain.RunReport) error {
	s.reports = append(s.reports, report)
	return nil
}
