package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// ScrapeTarget - пара "базовый URL выдачи + категория". Каждая цель
// обрабатывается в отдельной браузерной сессии.
type ScrapeTarget struct {
	BaseURL  string
	Category ListingCategory
}

// ScrapePageTask описывает единицу работы: одну страницу выдачи одной цели.
type ScrapePageTask struct {
	PageNumber int
	Target     ScrapeTarget
}

// RunReport - итог обработки одной страницы, пишется в историю запусков.
type RunReport struct {
	RunID        uuid.UUID
	PageNumber   int
	Category     ListingCategory
	RecordsFound int
	Status       string
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   time.Time
}
