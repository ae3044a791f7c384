package constants

import "centris-scraper-service/internal/core/domain"

// Источник
const (
	SiteOrigin = "https://www.centris.ca"

	BaseURLCommercial  = "https://www.centris.ca/en/commercial-properties~for-sale?uc=1"
	BaseURLResidential = "https://www.centris.ca/en/properties~for-sale?uc=1"
)

// BlockSignatures - маркеры страницы-заглушки вместо выдачи
var BlockSignatures = []string{
	"cf-captcha",
	"Access denied",
}

// DefaultScrapeTargets возвращает предопределенный набор целей обхода.
// Коммерческая выдача идет первой, каждая цель обходится в своей сессии.
func DefaultScrapeTargets() []domain.ScrapeTarget {
	return []domain.ScrapeTarget{
		{BaseURL: BaseURLCommercial, Category: domain.CategoryCommercial},
		{BaseURL: BaseURLResidential, Category: domain.CategoryResidential},
	}
}
