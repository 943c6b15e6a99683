package handlers

import (
	"net/http"
	"strconv"

	"github.com/quantora/marketlens/internal/contracts"
	"github.com/quantora/marketlens/pkg/logger"
	"github.com/quantora/marketlens/pkg/redis"
)

const (
	defaultRankingLimit = 50
	maxRankingLimit     = 500
)

// RankingHandler serves the market-cap ranking
type RankingHandler struct {
	fundamentals contracts.FundamentalRepository
	cache        *redis.Cache
	log          *logger.Logger
}

func NewRankingHandler(fundamentals contracts.FundamentalRepository, cache *redis.Cache, log *logger.Logger) *RankingHandler {
	return &RankingHandler{fundamentals: fundamentals, cache: cache, log: log}
}

// List handles GET /api/v1/rankings?limit=N
func (h *RankingHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultRankingLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = v
	}
	if limit > maxRankingLimit {
		limit = maxRankingLimit
	}

	var cached []*contracts.RankedSecurity
	if hit, err := h.cache.Get(r.Context(), redis.RankingsKey(limit), &cached); err == nil && hit {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	secs, err := h.fundamentals.GetTopRanked(r.Context(), limit)
	if err != nil {
		h.log.WithError(err).Error("Failed to load ranking")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := h.cache.Set(r.Context(), redis.RankingsKey(limit), secs, redis.TTLMedium); err != nil {
		h.log.WithError(err).Warn("Failed to cache ranking")
	}
	respondJSON(w, http.StatusOK, secs)
}
