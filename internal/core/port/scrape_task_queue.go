package port

import "context"

// ScrapeTaskQueuePort определяет контракт для постановки страниц выдачи в очередь
type ScrapeTaskQueuePort interface {
	// EnqueuePage публикует команду на обработку одной страницы выдачи
	EnqueuePage(ctx context.Context, pageNumber int) error
}
