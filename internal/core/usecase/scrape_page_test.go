package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"centris-scraper-service/internal/core/domain"
	"centris-scraper-service/internal/core/port"
	"centris-scraper-service/pkg/retry"
)

var testTargets = []domain.ScrapeTarget{
	{BaseURL: "https://example.com/commercial", Category: domain.CategoryCommercial},
	{BaseURL: "https://example.com/residential", Category: domain.CategoryResidential},
}

var testRetryCfg = retry.Config{MaxAttempts: 2, BaseDelay: time.Millisecond}

func TestScrapePageCollectsAllTargets(t *testing.T) {
	scraper := &stubScraper{
		scrapePageFn: func(ctx context.Context, task domain.ScrapePageTask) ([]domain.PropertyRecord, error) {
			return []domain.PropertyRecord{{MLSNumber: string(task.Target.Category)}}, nil
		},
	}
	storage := &stubStorage{}
	history := &stubRunHistory{}
	uc := NewScrapePageUseCase(scraper, NewSavePropertiesUseCase(storage), history, testTargets, testRetryCfg)

	records, err := uc.Execute(context.Background(), 1)
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want one per target", len(records))
	}
	if records[0].MLSNumber != "commercial" {
		t.Errorf("first record from %q, want commercial target first", records[0].MLSNumber)
	}

	if len(storage.upserted) != 1 || len(storage.upserted[0]) != 2 {
		t.Errorf("storage received %v, want a single batch of 2", storage.upserted)
	}
	if len(history.reports) != 2 {
		t.Fatalf("got %d run reports, want 2", len(history.reports))
	}
	for _, report := range history.reports {
		if report.Status != domain.RunStatusCompleted {
			t.Errorf("report status = %q, want completed", report.Status)
		}
		if report.RunID != history.reports[0].RunID {
			t.Error("reports of one run must share RunID")
		}
	}
}

func TestScrapePageRetriesTransientFailure(t *testing.T) {
	calls := 0
	scraper := &stubScraper{
		scrapePageFn: func(ctx context.Context, task domain.ScrapePageTask) ([]domain.PropertyRecord, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("navigation timeout")
			}
			return []domain.PropertyRecord{{MLSNumber: "11111111"}}, nil
		},
	}
	storage := &stubStorage{}
	uc := NewScrapePageUseCase(scraper, NewSavePropertiesUseCase(storage), nil, testTargets[:1], testRetryCfg)

	records, err := uc.Execute(context.Background(), 2)
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if calls != 2 {
		t.Errorf("scraper called %d times, want retry after first failure", calls)
	}
}

func TestScrapePagePartialTargetFailure(t *testing.T) {
	scraper := &stubScraper{
		scrapePageFn: func(ctx context.Context, task domain.ScrapePageTask) ([]domain.PropertyRecord, error) {
			if task.Target.Category == domain.CategoryCommercial {
				return nil, domain.ErrBlockedBySite
			}
			return []domain.PropertyRecord{{MLSNumber: "22222222"}}, nil
		},
	}
	storage := &stubStorage{}
	history := &stubRunHistory{}
	uc := NewScrapePageUseCase(scraper, NewSavePropertiesUseCase(storage), history, testTargets, testRetryCfg)

	records, err := uc.Execute(context.Background(), 1)
	if err != nil {
		t.Fatalf("Execute returned error %v, one successful target must win", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1 from the surviving target", len(records))
	}

	if len(history.reports) != 2 {
		t.Fatalf("got %d run reports, want 2", len(history.reports))
	}
	if history.reports[0].Status != domain.RunStatusFailed || history.reports[0].ErrorMessage == "" {
		t.Errorf("failed target report = %+v", history.reports[0])
	}
	if history.reports[1].Status != domain.RunStatusCompleted {
		t.Errorf("successful target report = %+v", history.reports[1])
	}
}

func TestScrapePageAllTargetsFailed(t *testing.T) {
	scraper := &stubScraper{
		scrapePageFn: func(ctx context.Context, task domain.ScrapePageTask) ([]domain.PropertyRecord, error) {
			return nil, domain.ErrBlockedBySite
		},
	}
	storage := &stubStorage{}
	uc := NewScrapePageUseCase(scraper, NewSavePropertiesUseCase(storage), nil, testTargets, testRetryCfg)

	records, err := uc.Execute(context.Background(), 1)
	if !errors.Is(err, domain.ErrBlockedBySite) {
		t.Errorf("Execute returned %v, want ErrBlockedBySite", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want none", len(records))
	}
	if len(storage.upserted) != 0 {
		t.Errorf("storage received %v, nothing should be saved", storage.upserted)
	}
}

func TestScrapePageSaveFailure(t *testing.T) {
	scraper := &stubScraper{
		scrapePageFn: func(ctx context.Context, task domain.ScrapePageTask) ([]domain.PropertyRecord, error) {
			return []domain.PropertyRecord{{MLSNumber: "33333333"}}, nil
		},
	}
	storage := &stubStorage{
		upsertFn: func(ctx context.Context, records []domain.PropertyRecord) (port.UpsertStats, error) {
			return port.UpsertStats{}, errors.New("mongo down")
		},
	}
	uc := NewScrapePageUseCase(scraper, NewSavePropertiesUseCase(storage), nil, testTargets[:1], testRetryCfg)

	_, err := uc.Execute(context.Background(), 1)
	if err == nil {
		t.Fatal("Execute must fail when saving fails")
	}
}
