package constants

// Имена очередей
const (
	QueueScrapePageTasks = "scrape_page_tasks_centris"
)

// Обменники и ключи маршрутизации
const (
	ScraperExchange          = "centris_scraper_exchange"
	RoutingKeyScrapePageTask = "centris.scrape.page"
)

// Инфраструктура ретраев для очереди страниц
const (
	RetryExchangeScrapeTasks = "scrape_page_tasks_retry_exchange"
	RetryQueueScrapeTasks    = "scrape_page_tasks_retry_wait"

	FinalDLXExchange   = "scrape_page_tasks_final_dlx"
	FinalDLQ           = "scrape_page_tasks_final_dlq"
	FinalDLQRoutingKey = "scrape_page.dlq.key"
)

// Тип события в заголовке сообщения
const (
	EventTypeHeader     = "event-type"
	EventTypeScrapePage = "ScrapePageCommand"
	TraceIDHeader       = "x-trace-id"
)
