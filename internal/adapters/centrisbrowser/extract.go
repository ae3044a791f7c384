package centrisbrowser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"centris-scraper-service/internal/core/domain"
)

const ratingUnavailable = "N/A"

// ratingLookupFunc возвращает внешний рейтинг организации по имени и адресу
type ratingLookupFunc func(name, address string) (string, error)

// extractPropertyRecord извлекает запись со страницы деталей.
// Каждое поле извлекается независимо: отсутствие узла дает пустое значение,
// а не ошибку всей записи. Ошибка возможна только при неразбираемом HTML.
func extractPropertyRecord(html, pageURL string, hint domain.ListingCategory, lookup ratingLookupFunc) (domain.PropertyRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return domain.PropertyRecord{}, fmt.Errorf("failed to parse detail page markup: %w", err)
	}

	record := domain.PropertyRecord{
		URL:                 pageURL,
		Amenities:           map[string]string{},
		FinancialDetails:    map[string]string{},
		BrokerNames:         []string{},
		BrokerPhones:        []string{},
		AdditionalPhotoURLs: []string{},
	}

	record.MetaName = attrOf(doc.Find(`meta[itemprop="name"]`).First(), "content")
	record.ImageURL = attrOf(doc.Find(`img[itemprop="image"]`).First(), "src")
	record.MLSNumber = textOf(doc.Find("#MlsNumberNoStealth p").First())
	record.PriceCurrency = attrOf(doc.Find(`meta[itemprop="priceCurrency"]`).First(), "content")
	record.Price = attrOf(doc.Find(`meta[itemprop="price"]`).First(), "content")
	record.Category = textOf(doc.Find(`div[itemprop="category"] div`).First())
	record.Address = extractAddress(doc)
	record.Organization = textOf(doc.Find("p.organisation-name").First())

	if score := doc.Find("span.ll-match-score.noAnimation").First(); score.Length() > 0 {
		record.Latitude = attrOf(score, "data-lat")
		record.Longitude = attrOf(score, "data-lng")
	}

	record.Description = textOf(doc.Find(`div[itemprop="description"]`).First())
	record.PhotoCount = extractPhotoCount(doc)
	record.BrokerNames, record.BrokerPhones = extractBrokers(doc)
	extractTeaserCounters(doc, record.Amenities)
	extractAmenityRows(doc, record.Amenities)
	if walk := textOf(doc.Find("div.walkscore span").First()); walk != "" {
		record.Amenities["WalkScore"] = walk
	}
	record.FinancialDetails = extractFinancialDetails(doc)

	record.ListingCategory = domain.ClassifyListingCategory(hint, record.Category)
	if record.ListingCategory == domain.CategoryCommercial {
		record.GoogleRating = lookupRatingOrDefault(lookup, record.Organization, record.Address)
	}

	return record, nil
}

func textOf(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}

func attrOf(s *goquery.Selection, name string) string {
	v, _ := s.Attr(name)
	return strings.TrimSpace(v)
}

// extractAddress собирает адрес из первых двух строк блока адреса
func extractAddress(doc *goquery.Document) string {
	var parts []string
	doc.Find("div.address div").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= 2 {
			return false
		}
		if t := textOf(s); t != "" {
			parts = append(parts, t)
		}
		return true
	})
	return strings.Join(parts, ", ")
}

func extractPhotoCount(doc *goquery.Document) int {
	raw := textOf(doc.Find("button.photo-btn span").First())
	if raw == "" {
		return 0
	}
	count, err := strconv.Atoi(raw)
	if err != nil || count < 0 {
		return 0
	}
	return count
}

// extractBrokers собирает имена и телефоны всех брокеров объявления.
// Телефоны дедуплицируются между брокерами, имена - нет.
func extractBrokers(doc *goquery.Document) (names []string, phones []string) {
	names = []string{}
	phones = []string{}
	seenPhones := map[string]bool{}

	doc.Find(`div[itemtype="https://schema.org/RealEstateAgent"]`).Each(func(_ int, broker *goquery.Selection) {
		if name := textOf(broker.Find(".broker-info__broker-title").First()); name != "" {
			names = append(names, name)
		}
		broker.Find(`a[itemprop="telephone"]`).Each(func(_ int, tel *goquery.Selection) {
			phone := attrOf(tel, "content")
			if phone == "" {
				phone = textOf(tel)
			}
			if phone == "" || seenPhones[phone] {
				return
			}
			seenPhones[phone] = true
			phones = append(phones, phone)
		})
	})
	return names, phones
}

// extractTeaserCounters разбирает счетчики тизера по подстрокам класса
// и складывает их в карту удобств под фиксированными ключами
func extractTeaserCounters(doc *goquery.Document, amenities map[string]string) {
	doc.Find("div.teaser").First().Children().Each(func(_ int, item *goquery.Selection) {
		class, _ := item.Attr("class")
		var key, value string
		switch {
		case strings.Contains(class, "piece"):
			key, value = "Rooms", textOf(item)
		case strings.Contains(class, "cac"):
			key, value = "Bedrooms", textOf(item)
		case strings.Contains(class, "sdb"):
			key, value = "Bathrooms", textOf(item)
		case strings.Contains(class, "lifestyle"):
			key, value = "LifestyleScore", textOf(item.Find("span.ll-score-color-default").First())
		}
		if key != "" && value != "" {
			amenities[key] = value
		}
	})
}

func extractAmenityRows(doc *goquery.Document, amenities map[string]string) {
	doc.Find("div.carac-container").Each(func(_ int, container *goquery.Selection) {
		title := textOf(container.Find("div.carac-title").First())
		value := textOf(container.Find("div.carac-value").First())
		if title == "" || value == "" {
			return
		}
		amenities[title] = value
	})
}

// extractFinancialDetails выравнивает финансовые таблицы в плоскую карту.
// Ключ строки: "{заголовок таблицы} - {ячейка} ({период})", итог из tfoot
// пишется под ключом "{заголовок таблицы} - Total ({период})". Таблица без
// заголовка пропускается, без контейнера периода суффикс не добавляется.
func extractFinancialDetails(doc *goquery.Document) map[string]string {
	details := map[string]string{}
	doc.Find("div.financial-details-tables table.table").Each(func(_ int, table *goquery.Selection) {
		title := textOf(table.Find("th.financial-details-table-title").First())
		if title == "" {
			return
		}
		period := financialPeriod(table)

		table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() != 2 {
				return
			}
			name := textOf(cells.Eq(0))
			value := textOf(cells.Eq(1))
			if name == "" || value == "" {
				return
			}
			details[financialKey(title, name, period)] = value
		})

		totalCells := table.Find("tfoot tr").First().Find("td")
		if totalCells.Length() != 2 {
			return
		}
		if total := textOf(totalCells.Eq(1)); total != "" {
			details[financialKey(title, "Total", period)] = total
		}
	})
	return details
}

func financialKey(title, name, period string) string {
	if period == "" {
		return fmt.Sprintf("%s - %s", title, name)
	}
	return fmt.Sprintf("%s - %s (%s)", title, name, period)
}

// financialPeriod определяет период таблицы по классу ее контейнера
func financialPeriod(table *goquery.Selection) string {
	container := table.Closest("div.financial-details-table-yearly, div.financial-details-table-monthly")
	if container.Length() == 0 {
		return ""
	}
	class, _ := container.Attr("class")
	if strings.Contains(class, "monthly") {
		return "Monthly"
	}
	return "Yearly"
}

func lookupRatingOrDefault(lookup ratingLookupFunc, name, address string) string {
	if lookup == nil || name == "" {
		return ratingUnavailable
	}
	rating, err := lookup(name, address)
	if err != nil || rating == "" {
		return ratingUnavailable
	}
	return rating
}

// extractListingSummaries разбирает карточки выдачи в облегченные записи
func extractListingSummaries(html string) ([]domain.ListingSummary, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse results page markup: %w", err)
	}

	var summaries []domain.ListingSummary
	doc.Find(listingCardSelector).Each(func(_ int, card *goquery.Selection) {
		summary := domain.ListingSummary{
			Title:    textOf(card.Find("div.property-thumbnail-summary div.category").First()),
			Price:    textOf(card.Find("div.price span").First()),
			Address:  textOf(card.Find("span.address").First()),
			ImageURL: attrOf(card.Find("img").First(), "src"),
		}
		if href, ok := card.Find(listingLinkSelector).First().Attr("href"); ok {
			summary.URL = absoluteListingURL(strings.TrimSpace(href))
		}
		if summary.URL == "" && summary.Title == "" {
			return
		}
		summaries = append(summaries, summary)
	})
	return summaries, nil
}
