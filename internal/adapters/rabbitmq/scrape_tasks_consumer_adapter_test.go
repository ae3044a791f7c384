package rabbitmq

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"

	"centris-scraper-service/internal/constants"
	"centris-scraper-service/internal/contextkeys"
	"centris-scraper-service/internal/core/domain"
	"centris-scraper-service/internal/core/port"
)

type nopLogger struct{}

func (l *nopLogger) Debug(msg string, fields port.Fields)            {}
func (l *nopLogger) Info(msg string, fields port.Fields)             {}
func (l *nopLogger) Warn(msg string, fields port.Fields)             {}
func (l *nopLogger) Error(msg string, err error, fields port.Fields) {}
func (l *nopLogger) WithFields(fields port.Fields) port.LoggerPort   { return l }

type stubScrapePage struct {
	pages []int
	err   error
	trace string
}

func (s *stubScrapePage) Execute(ctx context.Context, pageNumber int) ([]domain.PropertyRecord, error) {
	s.pages = append(s.pages, pageNumber)
	s.trace = contextkeys.TraceIDFromContext(ctx)
	return nil, s.err
}

func newTestAdapter(uc *stubScrapePage) *ScrapeTasksConsumerAdapter {
	return &ScrapeTasksConsumerAdapter{scrapePageUC: uc, logger: &nopLogger{}}
}

func TestMessageHandlerProcessesCommand(t *testing.T) {
	uc := &stubScrapePage{}
	a := newTestAdapter(uc)

	err := a.messageHandler(amqp.Delivery{
		Body:    []byte(`{"pageNumber":3}`),
		Headers: amqp.Table{constants.TraceIDHeader: "trace-123"},
	})
	if err != nil {
		t.Fatalf("messageHandler returned error: %v", err)
	}
	if len(uc.pages) != 1 || uc.pages[0] != 3 {
		t.Errorf("use case called with %v, want [3]", uc.pages)
	}
	if uc.trace != "trace-123" {
		t.Errorf("trace id = %q, want propagated header value", uc.trace)
	}
}

func TestMessageHandlerGeneratesTraceID(t *testing.T) {
	uc := &stubScrapePage{}
	a := newTestAdapter(uc)

	if err := a.messageHandler(amqp.Delivery{Body: []byte(`{"pageNumber":1}`)}); err != nil {
		t.Fatalf("messageHandler returned error: %v", err)
	}
	if uc.trace == "" {
		t.Error("a missing trace header must be replaced with a generated id")
	}
}

func TestMessageHandlerDropsBrokenMessages(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"broken json", `{"pageNumber":`},
		{"zero page", `{"pageNumber":0}`},
		{"negative page", `{"pageNumber":-2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubScrapePage{}
			a := newTestAdapter(uc)

			if err := a.messageHandler(amqp.Delivery{Body: []byte(tt.body)}); err != nil {
				t.Errorf("broken message must be dropped without error, got %v", err)
			}
			if len(uc.pages) != 0 {
				t.Error("use case must not run for a broken message")
			}
		})
	}
}

func TestMessageHandlerReturnsUseCaseError(t *testing.T) {
	wantErr := errors.New("site blocked")
	uc := &stubScrapePage{err: wantErr}
	a := newTestAdapter(uc)

	err := a.messageHandler(amqp.Delivery{Body: []byte(`{"pageNumber":2}`)})
	if !errors.Is(err, wantErr) {
		t.Errorf("messageHandler returned %v, want use case error for retry", err)
	}
}
