package centrisbrowser

import (
	"context"
	"errors"
	"testing"

	"centris-scraper-service/internal/core/port"
)

type nopLogger struct{}

func (l *nopLogger) Debug(msg string, fields port.Fields)            {}
func (l *nopLogger) Info(msg string, fields port.Fields)             {}
func (l *nopLogger) Warn(msg string, fields port.Fields)             {}
func (l *nopLogger) Error(msg string, err error, fields port.Fields) {}
func (l *nopLogger) WithFields(fields port.Fields) port.LoggerPort   { return l }

func TestSettleAfterAdvanceReclearsConsent(t *testing.T) {
	var calls []string
	a := &CentrisScraperAdapter{
		settleFn: func(ctx context.Context) error {
			calls = append(calls, "settle")
			return nil
		},
		consentFn: func(ctx context.Context, logger port.LoggerPort, stage string) {
			calls = append(calls, "consent:"+stage)
		},
	}

	if err := a.settleAfterAdvance(context.Background(), &nopLogger{}); err != nil {
		t.Fatalf("settleAfterAdvance returned error: %v", err)
	}
	if len(calls) != 2 || calls[0] != "settle" || calls[1] != "consent:pagination" {
		t.Errorf("calls = %v, want consent check after every settled advance", calls)
	}
}

func TestSettleAfterAdvanceSkipsConsentOnError(t *testing.T) {
	settleErr := errors.New("tab gone")
	var consentCalled bool
	a := &CentrisScraperAdapter{
		settleFn: func(ctx context.Context) error { return settleErr },
		consentFn: func(ctx context.Context, logger port.LoggerPort, stage string) {
			consentCalled = true
		},
	}

	if err := a.settleAfterAdvance(context.Background(), &nopLogger{}); !errors.Is(err, settleErr) {
		t.Fatalf("settleAfterAdvance error = %v, want %v", err, settleErr)
	}
	if consentCalled {
		t.Error("consent check ran after a failed settle")
	}
}
