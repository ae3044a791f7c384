package centrisbrowser

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"

	"centris-scraper-service/internal/core/port"
)

// Известные элементы Didomi-попапа согласия
const (
	consentAgreeSelector = "#didomi-notice-agree-button"
)

// consentVisibleJS проверяет, виден ли оверлей согласия
const consentVisibleJS = `(function() {
	var el = document.querySelector("#didomi-popup, .didomi-popup-backdrop, #didomi-host .didomi-popup-notice");
	return !!(el && el.offsetParent !== null);
})();`

// findConsentButtonJS ищет кнопку подтверждения эвристикой по тексту и
// атрибутам, прокручивает ее в центр экрана и запоминает для клика
const findConsentButtonJS = `(function() {
	var candidates = document.querySelectorAll("button, a[role='button'], [role='button']");
	var words = ["accept", "agree", "ok", "save", "continue"];
	for (var i = 0; i < candidates.length; i++) {
		var el = candidates[i];
		var text = (el.textContent || "").trim().toLowerCase();
		var id = (el.id || "").toLowerCase();
		var cls = (el.className || "").toString().toLowerCase();
		var byText = words.some(function(w) { return text === w || text.indexOf(w + " ") === 0; });
		if (byText || id.indexOf("didomi") >= 0 || cls.indexOf("didomi") >= 0) {
			el.scrollIntoView({block: "center"});
			window.__consentCandidate = el;
			return true;
		}
	}
	return false;
})();`

const clickConsentCandidateJS = `(function() {
	if (!window.__consentCandidate) { return false; }
	window.__consentCandidate.click();
	window.__consentCandidate = null;
	return true;
})();`

// globalConsentJS вызывает программное согласие через API Didomi
const globalConsentJS = `(function() {
	try {
		if (window.Didomi && typeof window.Didomi.setUserAgreeToAll === "function") {
			window.Didomi.setUserAgreeToAll();
			return true;
		}
	} catch (e) {}
	return false;
})();`

// hideConsentJS убирает оверлей стилями, когда закрыть его кликами не вышло.
// Контент под оверлеем остается доступным для чтения.
const hideConsentJS = `(function() {
	var selectors = ["#didomi-popup", ".didomi-popup-backdrop", "#didomi-host"];
	var hidden = false;
	selectors.forEach(function(sel) {
		document.querySelectorAll(sel).forEach(function(el) {
			el.style.display = "none";
			hidden = true;
		});
	});
	return hidden;
})();`

// dismissConsentPopup закрывает попап согласия, если он есть.
// Лестница попыток: нативный клик по известной кнопке, клик по кандидату
// из эвристики, глобальное согласие через API, скрытие оверлея стилями.
// Метод никогда не возвращает ошибку: неудача здесь не повод ронять обход.
func (a *CentrisScraperAdapter) dismissConsentPopup(ctx context.Context, logger port.LoggerPort, stage string) {
	var visible bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(consentVisibleJS, &visible)); err != nil || !visible {
		return
	}

	logger.Debug("Consent popup detected", port.Fields{"stage": stage})

	for round := 1; round <= a.cfg.ConsentMaxRounds; round++ {
		a.tryConsentClick(ctx, logger, round)

		if err := chromedp.Run(ctx, chromedp.Evaluate(consentVisibleJS, &visible)); err == nil && !visible {
			logger.Debug("Consent popup dismissed", port.Fields{"stage": stage, "round": round})
			return
		}
	}

	// Кликами закрыть не удалось: глобальное согласие, затем прячем оверлей
	var agreed bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(globalConsentJS, &agreed)); err == nil && agreed {
		logger.Debug("Consent granted via global API", port.Fields{"stage": stage})
	}

	var hidden bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(hideConsentJS, &hidden)); err == nil && hidden {
		logger.Warn("Consent popup hidden via CSS fallback", port.Fields{"stage": stage})
	} else {
		a.dumpArtifact(ctx, "didomi_error_final")
		logger.Error("Failed to dismiss consent popup", nil, port.Fields{"stage": stage})
	}
}

// tryConsentClick делает одну попытку клика: сначала нативный клик по
// известной кнопке, при неудаче - эвристика со scripted-кликом
func (a *CentrisScraperAdapter) tryConsentClick(ctx context.Context, logger port.LoggerPort, round int) {
	clickCtx, cancel := context.WithTimeout(ctx, a.cfg.ElementWait)
	err := chromedp.Run(clickCtx,
		chromedp.ScrollIntoView(consentAgreeSelector, chromedp.ByQuery),
		chromedp.Sleep(time.Second),
		chromedp.Click(consentAgreeSelector, chromedp.ByQuery),
	)
	cancel()
	if err == nil {
		return
	}

	logger.Debug("Native consent click failed, falling back to heuristic", port.Fields{"round": round, "error": err.Error()})

	var found bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(findConsentButtonJS, &found)); err != nil || !found {
		return
	}
	// Пауза между прокруткой и кликом
	_ = chromedp.Run(ctx,
		chromedp.Sleep(time.Second),
		chromedp.Evaluate(clickConsentCandidateJS, nil),
		chromedp.Sleep(time.Second),
	)
}
