package rest

import "centris-scraper-service/internal/core/domain"

// Режимы синхронного обхода
const (
	ModeDetails = "details"
	ModeSummary = "summary"
)

// ScrapeRequestDTO - тело запросов на запуск обхода.
// Пустое тело допустимо: берутся значения по умолчанию.
type ScrapeRequestDTO struct {
	MaxPages *int   `json:"maxPages,omitempty"`
	Mode     string `json:"mode,omitempty"` // details (по умолчанию) или summary
}

// ScrapeResponseDTO - результат синхронного обхода
type ScrapeResponseDTO struct {
	Count      int                     `json:"count"`
	Properties []domain.PropertyRecord `json:"properties,omitempty"`
	Summaries  []domain.ListingSummary `json:"summaries,omitempty"`
}

// AsyncAcceptedDTO - ответ на асинхронный запуск
type AsyncAcceptedDTO struct {
	Enqueued int    `json:"enqueued"`
	Message  string `json:"message"`
}
