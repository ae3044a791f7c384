package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestEnqueueScrapeRunPublishesAllPages(t *testing.T) {
	queue := &stubQueue{}
	uc := NewEnqueueScrapeRunUseCase(queue)

	published, err := uc.Execute(context.Background(), 3)
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if published != 3 {
		t.Errorf("published = %d, want 3", published)
	}
	if want := []int{1, 2, 3}; !reflect.DeepEqual(queue.pages, want) {
		t.Errorf("pages = %v, want %v", queue.pages, want)
	}
}

func TestEnqueueScrapeRunRejectsNonPositive(t *testing.T) {
	queue := &stubQueue{}
	uc := NewEnqueueScrapeRunUseCase(queue)

	for _, maxPages := range []int{0, -1} {
		if _, err := uc.Execute(context.Background(), maxPages); err == nil {
			t.Errorf("Execute(%d) must fail", maxPages)
		}
	}
	if len(queue.pages) != 0 {
		t.Error("nothing must be published on validation failure")
	}
}

func TestEnqueueScrapeRunStopsOnPublishError(t *testing.T) {
	wantErr := errors.New("channel closed")
	queue := &stubQueue{
		enqueueFn: func(ctx context.Context, pageNumber int) error {
			if pageNumber == 2 {
				return wantErr
			}
			return nil
		},
	}
	uc := NewEnqueueScrapeRunUseCase(queue)

	published, err := uc.Execute(context.Background(), 5)
	if !errors.Is(err, wantErr) {
		t.Errorf("Execute returned %v, want wrapped publish error", err)
	}
	if published != 1 {
		t.Errorf("published = %d, want 1 before the failure", published)
	}
}

func TestEnqueueScrapeRunRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	queue := &stubQueue{}
	uc := NewEnqueueScrapeRunUseCase(queue)

	published, err := uc.Execute(ctx, 3)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute returned %v, want context.Canceled", err)
	}
	if published != 0 {
		t.Errorf("published = %d, want 0 after cancellation", published)
	}
}
