package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/quantora/marketlens/internal/contracts"
	"github.com/quantora/marketlens/pkg/logger"
	"github.com/quantora/marketlens/pkg/redis"
)

// SummaryHandler serves investment summaries
type SummaryHandler struct {
	summaries contracts.SummaryRepository
	cache     *redis.Cache
	log       *logger.Logger
}

func NewSummaryHandler(summaries contracts.SummaryRepository, cache *redis.Cache, log *logger.Logger) *SummaryHandler {
	return &SummaryHandler{summaries: summaries, cache: cache, log: log}
}

// GetByTicker handles GET /api/v1/summaries/{ticker}
func (h *SummaryHandler) GetByTicker(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(mux.Vars(r)["ticker"])
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	var cached contracts.InvestmentSummary
	if hit, err := h.cache.Get(r.Context(), redis.SummaryKey(ticker), &cached); err == nil && hit {
		respondJSON(w, http.StatusOK, &cached)
		return
	}

	sum, err := h.summaries.GetByTicker(r.Context(), ticker)
	if errors.Is(err, contracts.ErrMissingData) {
		respondError(w, http.StatusNotFound, "no summary for "+ticker)
		return
	}
	if err != nil {
		h.log.WithField("ticker", ticker).WithError(err).Error("Failed to load summary")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := h.cache.Set(r.Context(), redis.SummaryKey(ticker), sum, redis.TTLDaily); err != nil {
		h.log.WithError(err).Warn("Failed to cache summary")
	}
	respondJSON(w, http.StatusOK, sum)
}
