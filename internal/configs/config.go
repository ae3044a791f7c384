package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// RabbitMQConfig хранит конфигурацию для RabbitMQ
type RabbitMQConfig struct {
	URL string
}

// MongoConfig хранит конфигурацию для хранилища объектов
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// PostgresConfig хранит конфигурацию для журнала запусков
type PostgresConfig struct {
	URL     string
	Enabled bool
}

// ScraperConfig хранит параметры браузерной сессии и обхода
type ScraperConfig struct {
	Headless          bool
	UserAgent         string
	NavigationSettle  time.Duration // Пауза после перехода на страницу
	ElementWait       time.Duration // Ограниченное ожидание ключевых элементов
	MaxPagesDefault   int           // Количество страниц по умолчанию для запуска
	MaxRetries        int           // Попытки обработки страницы
	RetryBaseDelay    time.Duration // Базовая задержка между попытками
	ArtifactDir       string        // Каталог для снимков HTML
	ConsentMaxRounds  int           // Сколько раз пытаться закрыть попап согласия
	RatingLookups     bool          // Обогащать ли коммерческие объекты рейтингом
}

type StdoutLogConfig struct {
	Level string // По умолчанию debug
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string // По умолчанию info
}

type HTTPConfig struct {
	Port string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	Mongo        MongoConfig
	Postgres     PostgresConfig
	RabbitMQ     RabbitMQConfig
	Scraper      ScraperConfig
	HTTP         HTTPConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// LoadConfig загружает конфигурацию из переменных окружения.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}

	if err != nil {
		log.Printf("Info: Could not load .env file (path: %v): %v.\n", envPath, err)
		return nil, fmt.Errorf("could not load .env file (path: %v): %v", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "centris-scraper-service")

	// Хранилище объектов
	cfg.Mongo.URI = os.Getenv("MONGO_URI")
	if cfg.Mongo.URI == "" {
		return nil, fmt.Errorf("MONGO_URI environment variable is required")
	}
	cfg.Mongo.Database = getEnvAsString("MONGO_DATABASE", "RealEstateDB")
	cfg.Mongo.Collection = getEnvAsString("MONGO_COLLECTION", "Properties")

	// Журнал запусков опционален: без DATABASE_URL история не ведется
	cfg.Postgres.URL = os.Getenv("DATABASE_URL")
	cfg.Postgres.Enabled = cfg.Postgres.URL != ""

	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
	if cfg.RabbitMQ.URL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL environment variable is required")
	}

	// Параметры обхода
	cfg.Scraper.Headless = getEnvAsBool("SCRAPER_HEADLESS", true)
	cfg.Scraper.UserAgent = getEnvAsString("SCRAPER_USER_AGENT",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36")
	cfg.Scraper.NavigationSettle = getEnvAsDuration("SCRAPER_NAVIGATION_SETTLE", 5*time.Second)
	cfg.Scraper.ElementWait = getEnvAsDuration("SCRAPER_ELEMENT_WAIT", 10*time.Second)
	cfg.Scraper.MaxPagesDefault = getEnvAsInt("SCRAPER_MAX_PAGES", 5)
	cfg.Scraper.MaxRetries = getEnvAsInt("SCRAPER_MAX_RETRIES", 3)
	cfg.Scraper.RetryBaseDelay = getEnvAsDuration("SCRAPER_RETRY_BASE_DELAY", 2*time.Second)
	cfg.Scraper.ArtifactDir = getEnvAsString("SCRAPER_ARTIFACT_DIR", "artifacts")
	cfg.Scraper.ConsentMaxRounds = getEnvAsInt("SCRAPER_CONSENT_MAX_ROUNDS", 3)
	cfg.Scraper.RatingLookups = getEnvAsBool("SCRAPER_RATING_LOOKUPS", true)

	cfg.HTTP.Port = getEnvAsString("HTTP_PORT", "8080")

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}

		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	return cfg, nil
}

// getEnvAsString читает переменную окружения как строку или возвращает значение по умолчанию
func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает переменную окружения как int или возвращает значение по умолчанию.
// Логирует ошибку, если переменная есть, но не может быть преобразована в int
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

// getEnvAsDuration читает переменную окружения как time.Duration ("5s", "500ms")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valDur, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as duration: %v. Using default value: %s\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valDur
}
