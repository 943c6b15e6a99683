package handlers

import (
	"net/http"

	"github.com/quantora/marketlens/pkg/database"
	"github.com/quantora/marketlens/pkg/logger"
)

// HealthHandler reports service and database health
type HealthHandler struct {
	db  *database.DB
	log *logger.Logger
}

func NewHealthHandler(db *database.DB, log *logger.Logger) *HealthHandler {
	return &HealthHandler{db: db, log: log}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status, err := h.db.HealthCheck(r.Context())
	if err != nil {
		h.log.WithError(err).Error("Health check failed")
		respondJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	respondJSON(w, http.StatusOK, status)
}
