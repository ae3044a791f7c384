package usecase

import (
	"context"
	"errors"
	"testing"

	"centris-scraper-service/internal/core/domain"
)

func TestScrapeSummariesCollectsAllTargets(t *testing.T) {
	scraper := &stubScraper{
		scrapeSummariesFn: func(ctx context.Context, target domain.ScrapeTarget, maxPages int) ([]domain.ListingSummary, error) {
			if maxPages != 2 {
				t.Errorf("maxPages = %d, want 2", maxPages)
			}
			return []domain.ListingSummary{{Title: string(target.Category)}}, nil
		},
	}
	uc := NewScrapeSummariesUseCase(scraper, testTargets)

	summaries, err := uc.Execute(context.Background(), 2)
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want one per target", len(summaries))
	}
	if summaries[0].Title != "commercial" || summaries[1].Title != "residential" {
		t.Errorf("summaries = %+v, want commercial target first", summaries)
	}
}

func TestScrapeSummariesTargetFailure(t *testing.T) {
	scraper := &stubScraper{
		scrapeSummariesFn: func(ctx context.Context, target domain.ScrapeTarget, maxPages int) ([]domain.ListingSummary, error) {
			return nil, domain.ErrNoListingsFound
		},
	}
	uc := NewScrapeSummariesUseCase(scraper, testTargets)

	_, err := uc.Execute(context.Background(), 1)
	if !errors.Is(err, domain.ErrNoListingsFound) {
		t.Errorf("Execute returned %v, want ErrNoListingsFound", err)
	}
}

func TestScrapeSummariesRejectsNonPositive(t *testing.T) {
	uc := NewScrapeSummariesUseCase(&stubScraper{}, testTargets)
	if _, err := uc.Execute(context.Background(), 0); err == nil {
		t.Error("Execute(0) must fail")
	}
}
