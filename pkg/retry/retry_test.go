package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Config{MaxAttempts: 3, BaseDelay: time.Millisecond}, nil, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Config{MaxAttempts: 3, BaseDelay: time.Millisecond}, nil, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if calls != 3 {
		t.Errorf("fn called %d times, want 3", calls)
	}
}

func TestDoReturnsLastError(t *testing.T) {
	wantErr := errors.New("still failing")
	calls := 0
	err := Do(context.Background(), Config{MaxAttempts: 3, BaseDelay: time.Millisecond}, nil, func() error {
		calls++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("Do returned %v, want %v", err, wantErr)
	}
	if calls != 3 {
		t.Errorf("fn called %d times, want 3", calls)
	}
}

func TestDoDelayDoubles(t *testing.T) {
	var delays []time.Duration
	onRetry := func(attempt int, delay time.Duration, err error) {
		delays = append(delays, delay)
	}

	_ = Do(context.Background(), Config{MaxAttempts: 3, BaseDelay: time.Millisecond}, onRetry, func() error {
		return errors.New("fail")
	})

	if len(delays) != 2 {
		t.Fatalf("onRetry called %d times, want 2", len(delays))
	}
	if delays[0] != time.Millisecond || delays[1] != 2*time.Millisecond {
		t.Errorf("delays = %v, want [1ms 2ms]", delays)
	}
}

func TestDoPermanentErrorShortCircuits(t *testing.T) {
	wantErr := errors.New("page is gone")
	calls := 0
	err := Do(context.Background(), Config{MaxAttempts: 5, BaseDelay: time.Millisecond}, nil, func() error {
		calls++
		return Permanent(wantErr)
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("Do returned %v, want unwrapped %v", err, wantErr)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestDoRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, Config{MaxAttempts: 3, BaseDelay: time.Hour}, nil, func() error {
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do returned %v, want context.Canceled", err)
	}
}

func TestDoZeroAttemptsTreatedAsOne(t *testing.T) {
	calls := 0
	_ = Do(context.Background(), Config{}, nil, func() error {
		calls++
		return errors.New("fail")
	})
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}
