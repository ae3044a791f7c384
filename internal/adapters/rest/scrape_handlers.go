package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"centris-scraper-service/internal/contextkeys"
	"centris-scraper-service/internal/core/domain"
	"centris-scraper-service/internal/core/port"
	usecases_port "centris-scraper-service/internal/core/port/usecases"
)

// ScrapeHandlers - HTTP-обработчики запуска обхода. Чистый транспорт:
// вся логика живет в use case, обработчик только разбирает запрос и отвечает.
type ScrapeHandlers struct {
	scrapePageUC    usecases_port.ScrapePagePort
	summariesUC     usecases_port.ScrapeSummariesPort
	enqueueUC       usecases_port.EnqueueScrapeRunPort
	maxPagesDefault int
}

func NewScrapeHandlers(
	scrapePageUC usecases_port.ScrapePagePort,
	summariesUC usecases_port.ScrapeSummariesPort,
	enqueueUC usecases_port.EnqueueScrapeRunPort,
	maxPagesDefault int,
) *ScrapeHandlers {
	return &ScrapeHandlers{
		scrapePageUC:    scrapePageUC,
		summariesUC:     summariesUC,
		enqueueUC:       enqueueUC,
		maxPagesDefault: maxPagesDefault,
	}
}

// Scrape - синхронный запуск. Держит соединение открытым до конца обхода
// и возвращает собранные данные в ответе.
func (h *ScrapeHandlers) Scrape(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	req, err := decodeScrapeRequest(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	maxPages := h.resolveMaxPages(req)

	if req.Mode == ModeSummary {
		summaries, err := h.summariesUC.Execute(r.Context(), maxPages)
		if err != nil {
			logger.Error("Summary scrape failed", err, nil)
			WriteJSONError(w, http.StatusInternalServerError, "summary scrape failed: "+err.Error())
			return
		}
		RespondWithJSON(w, http.StatusOK, ScrapeResponseDTO{Count: len(summaries), Summaries: summaries})
		return
	}

	var all []domain.PropertyRecord
	for page := 1; page <= maxPages; page++ {
		records, err := h.scrapePageUC.Execute(r.Context(), page)
		if err != nil {
			logger.Error("Page scrape failed during synchronous run", err, port.Fields{"page": page})
			if len(all) == 0 {
				WriteJSONError(w, http.StatusInternalServerError, "scrape failed: "+err.Error())
				return
			}
			// Частичный результат лучше пустого ответа
			break
		}
		all = append(all, records...)
	}

	RespondWithJSON(w, http.StatusOK, ScrapeResponseDTO{Count: len(all), Properties: all})
}

// ScrapeAsync раскладывает запуск на команды по страницам и сразу отвечает 202
func (h *ScrapeHandlers) ScrapeAsync(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	req, err := decodeScrapeRequest(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	maxPages := h.resolveMaxPages(req)

	enqueued, err := h.enqueueUC.Execute(r.Context(), maxPages)
	if err != nil {
		logger.Error("Failed to enqueue scrape run", err, port.Fields{"enqueued": enqueued})
		WriteJSONError(w, http.StatusInternalServerError, "failed to enqueue scrape run: "+err.Error())
		return
	}

	RespondWithJSON(w, http.StatusAccepted, AsyncAcceptedDTO{
		Enqueued: enqueued,
		Message:  "scrape run enqueued",
	})
}

func (h *ScrapeHandlers) resolveMaxPages(req ScrapeRequestDTO) int {
	if req.MaxPages != nil {
		return *req.MaxPages
	}
	return h.maxPagesDefault
}

func decodeScrapeRequest(r *http.Request) (ScrapeRequestDTO, error) {
	var req ScrapeRequestDTO
	if r.Body == nil {
		return req, nil
	}
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, fmt.Errorf("invalid request body: %v", err)
	}
	if req.Mode != "" && req.Mode != ModeDetails && req.Mode != ModeSummary {
		return req, fmt.Errorf("unknown mode %q", req.Mode)
	}
	if req.MaxPages != nil && *req.MaxPages < 1 {
		return req, fmt.Errorf("maxPages must be positive")
	}
	return req, nil
}
