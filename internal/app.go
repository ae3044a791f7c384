package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"

	"centris-scraper-service/internal/adapters/centrisbrowser"
	"centris-scraper-service/internal/adapters/filestorage"
	logger_adapter "centris-scraper-service/internal/adapters/logger"
	mongodb_adapter "centris-scraper-service/internal/adapters/mongodb"
	postgres_adapter "centris-scraper-service/internal/adapters/postgres"
	rabbitmq_adapter "centris-scraper-service/internal/adapters/rabbitmq"
	"centris-scraper-service/internal/adapters/ratinglookup"
	"centris-scraper-service/internal/adapters/rest"
	"centris-scraper-service/internal/configs"
	"centris-scraper-service/internal/constants"
	"centris-scraper-service/internal/core/port"
	"centris-scraper-service/internal/core/usecase"
	fluentlogger "centris-scraper-service/pkg/fluent_logger"
	"centris-scraper-service/pkg/mongodb"
	"centris-scraper-service/pkg/postgres"
	"centris-scraper-service/pkg/rabbitmq/rabbitmq_common"
	"centris-scraper-service/pkg/rabbitmq/rabbitmq_consumer"
	"centris-scraper-service/pkg/rabbitmq/rabbitmq_producer"
	"centris-scraper-service/pkg/retry"
)

// App – структура приложения
type App struct {
	config        *configs.AppConfig
	mongoClient   *mongo.Client
	dbPool        *pgxpool.Pool
	connManager   *rabbitmq_common.ConnectionManager
	eventProducer *rabbitmq_producer.Publisher
	fluentClient  *fluent.Fluent
	logger        port.LoggerPort

	// Входящие порты
	tasksListener port.EventListenerPort
	httpServer    *rest.Server
}

// NewApp создает новый экземпляр приложения.
// Это "Composition Root", где все зависимости создаются и связываются.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false, // текстовый формат
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	// --- 2. БАЗОВЫЙ ЛОГГЕР ПРИЛОЖЕНИЯ С КОНТЕКСТОМ ---
	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- 3. НИЗКОУРОВНЕВЫЕ КЛИЕНТЫ ---
	connManagerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"})
	connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(connManagerLogger)
	connManager, err := rabbitmq_common.GetManager(appConfig.RabbitMQ.URL, connManagerBridge)
	if err != nil {
		appLogger.Error("Failed to create connection manager", err, nil)
		return nil, fmt.Errorf("failed to create connection manager: %w", err)
	}
	appLogger.Info("RabbitMQ Connection Manager initialized.", nil)

	initCtx, cancelInit := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInit()

	mongoClient, err := mongodb.NewClient(initCtx, mongodb.Config{URI: appConfig.Mongo.URI})
	if err != nil {
		appLogger.Error("Failed to connect to MongoDB", err, nil)
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	appLogger.Info("Successfully connected to MongoDB!", nil)

	// Журнал запусков опционален, без DATABASE_URL сервис работает без него
	var dbPool *pgxpool.Pool
	var runHistory port.RunHistoryPort
	if appConfig.Postgres.Enabled {
		dbPool, err = postgres.NewClient(initCtx, postgres.Config{DatabaseURL: appConfig.Postgres.URL})
		if err != nil {
			appLogger.Error("Failed to connect to PostgreSQL", err, nil)
			closeMongo(mongoClient, appLogger)
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

		runHistoryAdapter := postgres_adapter.NewRunHistoryAdapter(dbPool)
		if err := runHistoryAdapter.EnsureSchema(initCtx); err != nil {
			appLogger.Error("Failed to ensure run history schema", err, nil)
			dbPool.Close()
			closeMongo(mongoClient, appLogger)
			return nil, fmt.Errorf("failed to ensure run history schema: %w", err)
		}
		runHistory = runHistoryAdapter
	} else {
		appLogger.Warn("DATABASE_URL is not set, run history is disabled", nil)
	}

	producerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})
	producerCfg := rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		ExchangeName:             constants.ScraperExchange,
		ExchangeType:             "direct",
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(producerLogger),
	}
	eventProducer, err := rabbitmq_producer.NewPublisher(producerCfg, connManager)
	if err != nil {
		appLogger.Error("Failed to create event producer", err, port.Fields{"url": appConfig.RabbitMQ.URL})
		closeAll(dbPool, mongoClient, appLogger)
		return nil, fmt.Errorf("failed to create event producer: %w", err)
	}
	appLogger.Info("RabbitMQ Event Producer initialized.", nil)

	// --- 4. ИСХОДЯЩИЕ АДАПТЕРЫ ---
	storageAdapter := mongodb_adapter.NewPropertyStorageAdapter(mongoClient, appConfig.Mongo.Database, appConfig.Mongo.Collection)
	if err := storageAdapter.EnsureIndexes(initCtx); err != nil {
		appLogger.Error("Failed to ensure MongoDB indexes", err, nil)
		eventProducer.Close()
		closeAll(dbPool, mongoClient, appLogger)
		return nil, fmt.Errorf("failed to ensure MongoDB indexes: %w", err)
	}

	artifactSink := filestorage.NewHTMLArtifactSink(
		appConfig.Scraper.ArtifactDir,
		baseLogger.WithFields(port.Fields{"component": "artifact_sink"}),
	)

	var ratingAdapter port.RatingLookupPort
	if appConfig.Scraper.RatingLookups {
		ratingAdapter = ratinglookup.NewGoogleRatingAdapter(appConfig.Scraper.UserAgent)
	}

	scraperAdapter := centrisbrowser.NewCentrisScraperAdapter(appConfig.Scraper, ratingAdapter, artifactSink)

	taskQueueAdapter, err := rabbitmq_adapter.NewScrapeTaskQueueAdapter(eventProducer, constants.RoutingKeyScrapePageTask)
	if err != nil {
		appLogger.Error("Failed to create scrape task queue adapter", err, nil)
		eventProducer.Close()
		closeAll(dbPool, mongoClient, appLogger)
		return nil, err
	}
	appLogger.Info("All outgoing adapters initialized.", nil)

	// --- 5. USE CASES ---
	savePropertiesUseCase := usecase.NewSavePropertiesUseCase(storageAdapter)
	scrapePageUseCase := usecase.NewScrapePageUseCase(
		scraperAdapter,
		savePropertiesUseCase,
		runHistory,
		constants.DefaultScrapeTargets(),
		retry.Config{
			MaxAttempts: appConfig.Scraper.MaxRetries,
			BaseDelay:   appConfig.Scraper.RetryBaseDelay,
		},
	)
	scrapeSummariesUseCase := usecase.NewScrapeSummariesUseCase(scraperAdapter, constants.DefaultScrapeTargets())
	enqueueScrapeRunUseCase := usecase.NewEnqueueScrapeRunUseCase(taskQueueAdapter)
	appLogger.Info("All use cases initialized.", nil)

	// --- 6. ВХОДЯЩИЕ АДАПТЕРЫ ---
	tasksConsumerCfg := rabbitmq_consumer.ConsumerConfig{
		Config:              rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		QueueName:           constants.QueueScrapePageTasks,
		RoutingKeyForBind:   constants.RoutingKeyScrapePageTask,
		ExchangeNameForBind: constants.ScraperExchange,
		PrefetchCount:       1,
		DurableQueue:        true,
		ConsumerTag:         "scrape-page-tasks-adapter",
		DeclareQueue:        true,

		EnableRetryMechanism: true,
		RetryExchange:        constants.RetryExchangeScrapeTasks,
		RetryQueue:           constants.RetryQueueScrapeTasks,
		RetryTTL:             10000, // 10 секунд в миллисекундах
		FinalDLXExchange:     constants.FinalDLXExchange,
		FinalDLQ:             constants.FinalDLQ,
		FinalDLQRoutingKey:   constants.FinalDLQRoutingKey,
		MaxRetries:           3,
	}
	tasksListener, err := rabbitmq_adapter.NewScrapeTasksConsumerAdapter(tasksConsumerCfg, scrapePageUseCase, baseLogger, connManager)
	if err != nil {
		appLogger.Error("Failed to initialize Scrape Tasks Listener", err, nil)
		eventProducer.Close()
		closeAll(dbPool, mongoClient, appLogger)
		return nil, err
	}
	appLogger.Info("Scrape Tasks Listener initialized.", nil)

	scrapeHandlers := rest.NewScrapeHandlers(
		scrapePageUseCase,
		scrapeSummariesUseCase,
		enqueueScrapeRunUseCase,
		appConfig.Scraper.MaxPagesDefault,
	)
	httpServer := rest.NewServer(appConfig.HTTP.Port, scrapeHandlers, baseLogger)
	appLogger.Info("HTTP server initialized.", port.Fields{"port": appConfig.HTTP.Port})

	// --- 7. СОБИРАЕМ ПРИЛОЖЕНИЕ ---
	application := &App{
		config:        appConfig,
		mongoClient:   mongoClient,
		dbPool:        dbPool,
		connManager:   connManager,
		eventProducer: eventProducer,
		fluentClient:  fluentClient,
		logger:        appLogger,
		tasksListener: tasksListener,
		httpServer:    httpServer,
	}

	return application, nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())

	var wg sync.WaitGroup

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelShutdown()
		if err := a.httpServer.Stop(shutdownCtx); err != nil {
			a.logger.Error("Error stopping HTTP server", err, nil)
		}

		a.logger.Info("Waiting for background processes to finish...", nil)
		wg.Wait()
		a.logger.Info("All background processes finished.", nil)

		if a.tasksListener != nil {
			if err := a.tasksListener.Close(); err != nil {
				a.logger.Error("Error closing scrape tasks listener", err, nil)
			}
		}
		if a.eventProducer != nil {
			if err := a.eventProducer.Close(); err != nil {
				a.logger.Error("Error closing event producer", err, nil)
			}
		}
		if a.connManager != nil {
			if err := a.connManager.Close(); err != nil {
				a.logger.Error("Error closing RabbitMQ connection manager", err, nil)
			}
		}
		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("PostgreSQL pool closed.", nil)
		}
		closeMongo(a.mongoClient, a.logger)

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			a.logger.Info("Closing Fluent Bit connection...", nil)
			if err := a.fluentClient.Close(); err != nil {
				log.Printf("App: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	componentErrors := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		listenerLogger := a.logger.WithFields(port.Fields{"listener_name": "Scrape Tasks Listener"})
		listenerLogger.Info("Starting listener...", nil)

		if err := a.tasksListener.Start(appCtx); err != nil {
			listenerLogger.Error("Listener stopped with an unexpected error", err, nil)
			componentErrors <- fmt.Errorf("scrape tasks listener error: %w", err)
		} else {
			listenerLogger.Info("Listener stopped gracefully due to context cancellation.", nil)
		}
	}()

	go func() {
		if err := a.httpServer.Start(); err != nil {
			a.logger.Error("HTTP server stopped with an unexpected error", err, nil)
			componentErrors <- fmt.Errorf("http server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or component error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received signal, shutting down", port.Fields{"signal": receivedSignal.String()})
	case err := <-componentErrors:
		a.logger.Error("A critical component failed, shutting down", err, nil)
	case <-appCtx.Done():
		a.logger.Warn("Context was cancelled unexpectedly, shutting down", nil)
	}

	cancelApp()

	return nil
}

func closeMongo(client *mongo.Client, logger port.LoggerPort) {
	if client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		logger.Error("Error disconnecting MongoDB client", err, nil)
	} else {
		logger.Info("MongoDB client disconnected.", nil)
	}
}

func closeAll(dbPool *pgxpool.Pool, mongoClient *mongo.Client, logger port.LoggerPort) {
	if dbPool != nil {
		dbPool.Close()
	}
	closeMongo(mongoClient, logger)
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
