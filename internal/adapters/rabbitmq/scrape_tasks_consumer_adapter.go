package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"centris-scraper-service/internal/constants"
	"centris-scraper-service/internal/contextkeys"
	"centris-scraper-service/internal/core/port"
	usecases_port "centris-scraper-service/internal/core/port/usecases"
	"centris-scraper-service/pkg/rabbitmq/rabbitmq_common"
	"centris-scraper-service/pkg/rabbitmq/rabbitmq_consumer"
)

// ScrapeTasksConsumerAdapter слушает очередь команд и запускает обработку страниц
type ScrapeTasksConsumerAdapter struct {
	consumer     *rabbitmq_consumer.DistributingConsumer
	scrapePageUC usecases_port.ScrapePagePort
	logger       port.LoggerPort
}

func NewScrapeTasksConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	scrapePageUC usecases_port.ScrapePagePort,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*ScrapeTasksConsumerAdapter, error) {

	adapter := &ScrapeTasksConsumerAdapter{
		scrapePageUC: scrapePageUC,
		logger:       logger,
	}

	// Создаем логгер для pkg-уровня с контекстом нашего компонента
	pkgLogger := logger.WithFields(port.Fields{
		"component":    "rabbitmq_distributing_consumer",
		"consumer_tag": consumerCfg.ConsumerTag,
	})
	consumerCfg.Logger = NewPkgLoggerBridge(pkgLogger)

	consumer, err := rabbitmq_consumer.NewDistributingConsumer(consumerCfg, adapter.messageHandler, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for scrape tasks: %w", err)
	}
	adapter.consumer = consumer

	return adapter, nil
}

// messageHandler - приватный метод адаптера
func (a *ScrapeTasksConsumerAdapter) messageHandler(d amqp.Delivery) error {
	traceID, ok := d.Headers[constants.TraceIDHeader].(string)
	if !ok || traceID == "" {
		traceID = uuid.New().String()
	}

	// Создаем логгер для этого конкретного сообщения
	msgLogger := a.logger.WithFields(port.Fields{
		"trace_id":     traceID,
		"delivery_tag": d.DeliveryTag,
	})

	ctx := context.Background()
	ctx = contextkeys.ContextWithLogger(ctx, msgLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	msgLogger.Info("Received scrape page command", nil)

	var command ScrapePageCommandDTO
	if err := json.Unmarshal(d.Body, &command); err != nil {
		// Ошибка разбора JSON постоянная, повторная обработка не поможет
		msgLogger.Error("Error unmarshalling scrape page command, dropping message", err, nil)
		return nil
	}
	if command.PageNumber < 1 {
		msgLogger.Error("Invalid page number in command, dropping message", nil, port.Fields{"page": command.PageNumber})
		return nil
	}

	pageLogger := msgLogger.WithFields(port.Fields{"page": command.PageNumber})
	ctx = contextkeys.ContextWithLogger(ctx, pageLogger)

	records, err := a.scrapePageUC.Execute(ctx, command.PageNumber)
	if err != nil {
		pageLogger.Error("Scrape page use case failed", err, nil)
		return err // Возвращаем ошибку для retry
	}

	pageLogger.Info("Scrape page command processed", port.Fields{"records": len(records)})
	return nil
}

// Start реализует EventListenerPort
func (a *ScrapeTasksConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

// Close реализует EventListenerPort
func (a *ScrapeTasksConsumerAdapter) Close() error {
	return a.consumer.Close()
}
