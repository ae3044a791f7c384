package centrisbrowser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"centris-scraper-service/internal/constants"
)

const (
	listingCardSelector = "div.property-thumbnail-item"
	listingLinkSelector = "a.property-thumbnail-summary-link"
	nextControlSelector = "ul.pager li.next:not(.inactive) a"
)

// collectListingURLs возвращает абсолютные ссылки на страницы деталей
// со страницы выдачи. Карточки без ссылки пропускаются.
func collectListingURLs(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var urls []string
	doc.Find(listingCardSelector).Each(func(_ int, card *goquery.Selection) {
		href, ok := card.Find(listingLinkSelector).First().Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		urls = append(urls, absoluteListingURL(href))
	})
	return urls, nil
}

func absoluteListingURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return constants.SiteOrigin + href
}

// hasActiveNextControl проверяет наличие активной кнопки следующей страницы.
// Кнопка внутри li.inactive означает конец выдачи.
func hasActiveNextControl(html string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}
	return doc.Find(nextControlSelector).Length() > 0
}
