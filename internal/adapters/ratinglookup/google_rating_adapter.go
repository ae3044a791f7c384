package ratinglookup

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/gocolly/colly/v2"
)

// ratingPattern вылавливает оценку вида "4.5 stars" / "Rated 4,5 out of 5"
// из разметки поисковой выдачи
var ratingPattern = regexp.MustCompile(`(?i)(?:rated\s+)?([0-5][.,]\d)\s*(?:stars?|out of 5|/\s*5)`)

// GoogleRatingAdapter реализует RatingLookupPort обычным HTTP-поиском,
// без браузера. Результаты кэшируются на время жизни процесса: одна и та же
// организация встречается на многих страницах выдачи.
type GoogleRatingAdapter struct {
	base  *colly.Collector
	cache sync.Map // "name|address" -> rating
}

func NewGoogleRatingAdapter(userAgent string) *GoogleRatingAdapter {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.AllowURLRevisit(),
	)
	return &GoogleRatingAdapter{base: c}
}

// LookupRating возвращает рейтинг организации. Любая ошибка не фатальна:
// вызывающая сторона подставляет значение по умолчанию.
func (a *GoogleRatingAdapter) LookupRating(ctx context.Context, name, address string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("rating lookup: organization name is empty")
	}

	cacheKey := name + "|" + address
	if cached, ok := a.cache.Load(cacheKey); ok {
		return cached.(string), nil
	}

	query := url.QueryEscape(strings.TrimSpace(name + " " + address + " reviews"))
	searchURL := "https://www.google.com/search?q=" + query

	var rating string
	collector := a.base.Clone()
	collector.OnResponse(func(r *colly.Response) {
		if m := ratingPattern.FindSubmatch(r.Body); m != nil {
			rating = strings.Replace(string(m[1]), ",", ".", 1)
		}
	})

	if err := collector.Visit(searchURL); err != nil {
		return "", fmt.Errorf("rating lookup: search request failed: %w", err)
	}
	if rating == "" {
		return "", fmt.Errorf("rating lookup: no rating found for %q", name)
	}

	a.cache.Store(cacheKey, rating)
	return rating, nil
}
