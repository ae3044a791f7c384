package centrisbrowser

import (
	"context"

	"github.com/chromedp/chromedp"

	"centris-scraper-service/internal/configs"
)

// newBrowserSession поднимает изолированный экземпляр браузера.
// Возвращенная функция release обязана быть вызвана для остановки процесса.
func newBrowserSession(parent context.Context, cfg configs.ScraperConfig) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(cfg.UserAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	release := func() {
		browserCancel()
		allocCancel()
	}
	return browserCtx, release
}

// pageHTML снимает текущую разметку страницы целиком
func pageHTML(ctx context.Context) (string, error) {
	var html string
	err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}
