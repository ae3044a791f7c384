package centrisbrowser

import (
	"strings"

	"centris-scraper-service/internal/constants"
)

// IsBlockedMarkup сообщает, что вместо выдачи пришла страница-заглушка
// (captcha либо отказ в доступе). Проверка по сырому HTML, до разбора DOM.
func IsBlockedMarkup(html string) bool {
	for _, signature := range constants.BlockSignatures {
		if strings.Contains(html, signature) {
			return true
		}
	}
	return false
}
