package centrisbrowser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"centris-scraper-service/internal/configs"
	"centris-scraper-service/internal/contextkeys"
	"centris-scraper-service/internal/core/domain"
	"centris-scraper-service/internal/core/port"
)

const (
	detailReadySelector     = "div.col-lg-12.description"
	financialTablesSelector = "div.financial-details-tables"
	nextClickAttempts       = 3
)

// clickNextJS - scripted-клик по кнопке следующей страницы, когда нативный
// клик перехватывается оверлеем
const clickNextJS = `(function() {
	var link = document.querySelector("ul.pager li.next:not(.inactive) a");
	if (!link) { return false; }
	link.click();
	return true;
})();`

// toggleFinancialTablesJS раскрывает свернутые финансовые таблицы:
// сначала функцией страницы, затем кликом по ссылке-переключателю
const toggleFinancialTablesJS = `(function() {
	try {
		if (typeof toggleTables === "function") { toggleTables(); return true; }
	} catch (e) {}
	var link = document.querySelector("#toggleLink");
	if (link) { link.click(); return true; }
	return false;
})();`

// CentrisScraperAdapter реализует PropertyScraperPort поверх управляемого браузера
type CentrisScraperAdapter struct {
	cfg       configs.ScraperConfig
	rating    port.RatingLookupPort // может быть nil, тогда рейтинг не ищется
	artifacts port.ArtifactSinkPort

	// Подменяются в тестах, где реального браузера нет
	settleFn  func(ctx context.Context) error
	consentFn func(ctx context.Context, logger port.LoggerPort, stage string)
}

func NewCentrisScraperAdapter(cfg configs.ScraperConfig, rating port.RatingLookupPort, artifacts port.ArtifactSinkPort) *CentrisScraperAdapter {
	return &CentrisScraperAdapter{
		cfg:       cfg,
		rating:    rating,
		artifacts: artifacts,
	}
}

// ScrapePage доводит свежую браузерную сессию до нужной страницы выдачи и
// собирает полные записи со всех страниц деталей. Сбой одной карточки не
// роняет страницу: запись пропускается, а разметка уходит в артефакты.
func (a *CentrisScraperAdapter) ScrapePage(ctx context.Context, task domain.ScrapePageTask) ([]domain.PropertyRecord, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"page":     task.PageNumber,
		"category": string(task.Target.Category),
	})

	browserCtx, release := newBrowserSession(ctx, a.cfg)
	defer release()

	if err := a.openResults(browserCtx, logger, task.Target.BaseURL); err != nil {
		return nil, err
	}

	if err := a.goToPage(browserCtx, logger, task.PageNumber); err != nil {
		if !errors.Is(err, domain.ErrPaginationExhausted) {
			return nil, err
		}
		// Выдача короче запрошенной страницы: собираем то, что есть
		logger.Warn("Results ended before requested page, scraping current one", nil)
	}

	urls, err := a.currentPageListingURLs(browserCtx, task.PageNumber)
	if err != nil {
		return nil, err
	}
	logger.Info("Collected listing URLs", port.Fields{"count": len(urls)})

	records := make([]domain.PropertyRecord, 0, len(urls))
	for i, listingURL := range urls {
		record, detailErr := a.scrapeDetailPage(browserCtx, logger, listingURL, task.Target.Category, i)
		if detailErr != nil {
			logger.Error("Failed to scrape detail page, skipping listing", detailErr, port.Fields{
				"listing_url": listingURL,
				"index":       i,
			})
		} else {
			records = append(records, record)
		}

		// Возврат на выдачу перед следующей карточкой
		if i < len(urls)-1 {
			if err := a.navigate(browserCtx, task.Target.BaseURL); err != nil {
				return records, fmt.Errorf("failed to return to results page: %w", err)
			}
			a.dismissConsentPopup(browserCtx, logger, "between_details")
		}
	}

	return records, nil
}

// ScrapeSummaries собирает облегченные карточки первых maxPages страниц выдачи
func (a *CentrisScraperAdapter) ScrapeSummaries(ctx context.Context, target domain.ScrapeTarget, maxPages int) ([]domain.ListingSummary, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"category": string(target.Category),
		"mode":     "summary",
	})

	browserCtx, release := newBrowserSession(ctx, a.cfg)
	defer release()

	if err := a.openResults(browserCtx, logger, target.BaseURL); err != nil {
		return nil, err
	}

	var summaries []domain.ListingSummary
	for page := 1; page <= maxPages; page++ {
		if err := a.waitVisible(browserCtx, listingCardSelector); err != nil {
			a.dumpArtifact(browserCtx, fmt.Sprintf("page_%d_no_properties", page))
			if page == 1 {
				return nil, domain.ErrNoListingsFound
			}
			break
		}

		html, err := pageHTML(browserCtx)
		if err != nil {
			return summaries, fmt.Errorf("failed to read results page markup: %w", err)
		}
		pageSummaries, err := extractListingSummaries(html)
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, pageSummaries...)
		logger.Info("Collected listing summaries", port.Fields{"page": page, "count": len(pageSummaries)})

		if page == maxPages {
			break
		}
		if !hasActiveNextControl(html) {
			a.dumpArtifact(browserCtx, fmt.Sprintf("page_%d_no_next_button", page))
			logger.Warn("No active next-page control, stopping early", port.Fields{"page": page})
			break
		}
		if err := a.clickNext(browserCtx, logger); err != nil {
			a.dumpArtifact(browserCtx, fmt.Sprintf("page_%d_click_error", page))
			logger.Error("Failed to advance to next results page", err, port.Fields{"page": page})
			break
		}
	}

	return summaries, nil
}

// openResults открывает выдачу, проверяет страницу на блокировку
// и закрывает попап согласия
func (a *CentrisScraperAdapter) openResults(ctx context.Context, logger port.LoggerPort, baseURL string) error {
	if err := a.navigate(ctx, baseURL); err != nil {
		return fmt.Errorf("failed to open results page: %w", err)
	}

	html, err := pageHTML(ctx)
	if err != nil {
		return fmt.Errorf("failed to read results page markup: %w", err)
	}
	if IsBlockedMarkup(html) {
		a.saveArtifact("initial_error", html)
		return domain.ErrBlockedBySite
	}

	a.dismissConsentPopup(ctx, logger, "initial")
	return nil
}

// goToPage доводит выдачу с первой страницы до target.
// Возвращает ErrPaginationExhausted, если выдача закончилась раньше.
func (a *CentrisScraperAdapter) goToPage(ctx context.Context, logger port.LoggerPort, target int) error {
	for page := 1; page < target; page++ {
		html, err := pageHTML(ctx)
		if err != nil {
			return fmt.Errorf("failed to read page markup during pagination: %w", err)
		}
		if IsBlockedMarkup(html) {
			a.saveArtifact(fmt.Sprintf("page_%d_blocked", page), html)
			return domain.ErrBlockedBySite
		}
		if !hasActiveNextControl(html) {
			a.dumpArtifact(ctx, fmt.Sprintf("page_%d_no_next_button", page))
			return domain.ErrPaginationExhausted
		}
		if err := a.clickNext(ctx, logger); err != nil {
			a.dumpArtifact(ctx, fmt.Sprintf("page_%d_click_error", page))
			return fmt.Errorf("failed to advance from page %d: %w", page, err)
		}
		logger.Debug("Advanced to next results page", port.Fields{"page": page + 1})
	}
	return nil
}

// clickNext кликает по кнопке следующей страницы. При перехвате клика
// оверлеем закрывает попап согласия и пробует scripted-клик.
// После удачного перехода попап проверяется еще раз: он может всплыть
// заново на любой странице выдачи.
func (a *CentrisScraperAdapter) clickNext(ctx context.Context, logger port.LoggerPort) error {
	var lastErr error
	for attempt := 1; attempt <= nextClickAttempts; attempt++ {
		clickCtx, cancel := context.WithTimeout(ctx, a.cfg.ElementWait)
		err := chromedp.Run(clickCtx,
			chromedp.ScrollIntoView(nextControlSelector, chromedp.ByQuery),
			chromedp.Sleep(500*time.Millisecond),
			chromedp.Click(nextControlSelector, chromedp.ByQuery),
		)
		cancel()
		if err == nil {
			return a.settleAfterAdvance(ctx, logger)
		}
		lastErr = err

		logger.Warn("Next-page click failed, retrying after consent check", port.Fields{
			"attempt": attempt,
			"error":   err.Error(),
		})
		a.dismissConsentPopup(ctx, logger, "pagination")

		var clicked bool
		if jsErr := chromedp.Run(ctx, chromedp.Evaluate(clickNextJS, &clicked)); jsErr == nil && clicked {
			return a.settleAfterAdvance(ctx, logger)
		}
	}
	return lastErr
}

func (a *CentrisScraperAdapter) settleAfterAdvance(ctx context.Context, logger port.LoggerPort) error {
	settle := a.settleFn
	if settle == nil {
		settle = func(ctx context.Context) error {
			return chromedp.Run(ctx, chromedp.Sleep(a.cfg.NavigationSettle))
		}
	}
	consent := a.consentFn
	if consent == nil {
		consent = a.dismissConsentPopup
	}

	if err := settle(ctx); err != nil {
		return err
	}
	consent(ctx, logger, "pagination")
	return nil
}

// currentPageListingURLs дожидается карточек и собирает ссылки на детали
func (a *CentrisScraperAdapter) currentPageListingURLs(ctx context.Context, pageNumber int) ([]string, error) {
	if err := a.waitVisible(ctx, listingCardSelector); err != nil {
		a.dumpArtifact(ctx, fmt.Sprintf("page_%d_no_properties", pageNumber))
		return nil, domain.ErrNoListingsFound
	}

	html, err := pageHTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read results page markup: %w", err)
	}
	urls, err := collectListingURLs(html)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		a.dumpArtifact(ctx, fmt.Sprintf("page_%d_no_properties", pageNumber))
		return nil, domain.ErrNoListingsFound
	}
	return urls, nil
}

// scrapeDetailPage открывает страницу деталей и извлекает из нее запись
func (a *CentrisScraperAdapter) scrapeDetailPage(ctx context.Context, logger port.LoggerPort, listingURL string, hint domain.ListingCategory, index int) (domain.PropertyRecord, error) {
	if err := a.navigate(ctx, listingURL); err != nil {
		return domain.PropertyRecord{}, fmt.Errorf("failed to open detail page: %w", err)
	}
	a.dismissConsentPopup(ctx, logger, "detail")

	if err := a.waitVisible(ctx, detailReadySelector); err != nil {
		a.dumpArtifact(ctx, fmt.Sprintf("detail_error_%d", index))
		return domain.PropertyRecord{}, fmt.Errorf("detail page content did not appear: %w", err)
	}

	a.expandFinancialTables(ctx, logger, index)

	html, err := pageHTML(ctx)
	if err != nil {
		return domain.PropertyRecord{}, fmt.Errorf("failed to read detail page markup: %w", err)
	}

	return extractPropertyRecord(html, listingURL, hint, a.ratingLookup(ctx))
}

// expandFinancialTables раскрывает свернутые финансовые таблицы, если они есть
func (a *CentrisScraperAdapter) expandFinancialTables(ctx context.Context, logger port.LoggerPort, index int) {
	if err := a.waitVisible(ctx, financialTablesSelector); err != nil {
		// Таблиц на странице нет, обычное дело для жилой недвижимости
		return
	}

	var toggled bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(toggleFinancialTablesJS, &toggled)); err != nil {
		a.dumpArtifact(ctx, fmt.Sprintf("financial_tables_wait_error_%d", index))
		logger.Warn("Failed to expand financial tables", port.Fields{"index": index, "error": err.Error()})
		return
	}
	if toggled {
		// Даем таблицам перестроиться перед снятием разметки
		_ = chromedp.Run(ctx, chromedp.Sleep(time.Second))
	}
}

// ratingLookup адаптирует порт рейтинга к функции извлечения
func (a *CentrisScraperAdapter) ratingLookup(ctx context.Context) ratingLookupFunc {
	if a.rating == nil || !a.cfg.RatingLookups {
		return nil
	}
	return func(name, address string) (string, error) {
		return a.rating.LookupRating(ctx, name, address)
	}
}

func (a *CentrisScraperAdapter) navigate(ctx context.Context, url string) error {
	return chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.Sleep(a.cfg.NavigationSettle),
	)
}

// waitVisible ждет элемент не дольше сконфигурированного таймаута
func (a *CentrisScraperAdapter) waitVisible(ctx context.Context, selector string) error {
	waitCtx, cancel := context.WithTimeout(ctx, a.cfg.ElementWait)
	defer cancel()
	return chromedp.Run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

// dumpArtifact снимает текущую разметку и отдает ее в приемник артефактов
func (a *CentrisScraperAdapter) dumpArtifact(ctx context.Context, tag string) {
	html, err := pageHTML(ctx)
	if err != nil {
		return
	}
	a.saveArtifact(tag, html)
}

func (a *CentrisScraperAdapter) saveArtifact(tag, html string) {
	if a.artifacts == nil {
		return
	}
	a.artifacts.SaveHTML(tag, html)
}
