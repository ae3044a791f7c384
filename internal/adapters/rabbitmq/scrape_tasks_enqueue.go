package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"centris-scraper-service/internal/constants"
	"centris-scraper-service/internal/contextkeys"
	"centris-scraper-service/internal/core/port"
	"centris-scraper-service/pkg/rabbitmq/rabbitmq_producer"
)

const publishTimeout = 10 * time.Second

// ScrapeTaskQueueAdapter реализует ScrapeTaskQueuePort для RabbitMQ.
type ScrapeTaskQueueAdapter struct {
	producer   *rabbitmq_producer.Publisher
	routingKey string
}

// NewScrapeTaskQueueAdapter создает новый адаптер очереди задач.
// producer - уже инициализированный rabbitmq_producer.Publisher.
func NewScrapeTaskQueueAdapter(producer *rabbitmq_producer.Publisher, routingKey string) (*ScrapeTaskQueueAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}

	return &ScrapeTaskQueueAdapter{
		producer:   producer,
		routingKey: routingKey,
	}, nil
}

// EnqueuePage публикует команду на обработку одной страницы выдачи.
func (a *ScrapeTaskQueueAdapter) EnqueuePage(ctx context.Context, pageNumber int) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "ScrapeTaskQueueAdapter",
		"routing_key": a.routingKey,
	})

	command := ScrapePageCommandDTO{PageNumber: pageNumber}
	body, err := json.Marshal(command)
	if err != nil {
		logger.Error("Failed to marshal scrape page command", err, port.Fields{"page": pageNumber})
		return fmt.Errorf("rabbitmq adapter: failed to marshal command for page %d: %w", pageNumber, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent, // Сообщения переживают перезапуск брокера
		Timestamp:    time.Now(),
		Headers: amqp.Table{
			constants.EventTypeHeader: constants.EventTypeScrapePage,
		},
	}

	// Пробрасываем trace_id в заголовки сообщения
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers[constants.TraceIDHeader] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		logger.Error("Failed to publish scrape page command", err, port.Fields{"page": pageNumber})
		return fmt.Errorf("rabbitmq adapter: failed to publish command for page %d: %w", pageNumber, err)
	}

	logger.Debug("Successfully published scrape page command", port.Fields{"page": pageNumber})
	return nil
}
