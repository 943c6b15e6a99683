package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/quantora/marketlens/internal/api/handlers"
	"github.com/quantora/marketlens/internal/contracts"
	"github.com/quantora/marketlens/pkg/database"
	"github.com/quantora/marketlens/pkg/logger"
	"github.com/quantora/marketlens/pkg/redis"
)

// RouterDeps bundles what the HTTP routes need
type RouterDeps struct {
	DB           *database.DB
	Cache        *redis.Cache
	Summaries    contracts.SummaryRepository
	Fundamentals contracts.FundamentalRepository
}

// NewRouter builds the HTTP route table
func NewRouter(deps RouterDeps, log *logger.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(loggingMiddleware(log))

	health := handlers.NewHealthHandler(deps.DB, log)
	summary := handlers.NewSummaryHandler(deps.Summaries, deps.Cache, log)
	ranking := handlers.NewRankingHandler(deps.Fundamentals, deps.Cache, log)

	r.HandleFunc("/health", health.Health).Methods(http.MethodGet)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/summaries/{ticker}", summary.GetByTicker).Methods(http.MethodGet)
	v1.HandleFunc("/rankings", ranking.List).Methods(http.MethodGet)

	return r
}

func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start).String(),
			}).Debug("HTTP request handled")
		})
	}
}
