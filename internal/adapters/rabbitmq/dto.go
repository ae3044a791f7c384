package rabbitmq

// ScrapePageCommandDTO - команда на обработку одной страницы выдачи
type ScrapePageCommandDTO struct {
	PageNumber int `json:"pageNumber"`
}
