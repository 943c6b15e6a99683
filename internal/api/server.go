package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/quantora/marketlens/pkg/config"
	"github.com/quantora/marketlens/pkg/logger"
)

// Server is the HTTP API server
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

// NewServer creates the API server with its routes wired
func NewServer(cfg *config.Config, log *logger.Logger, deps RouterDeps) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      NewRouter(deps, log),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		log: log,
	}
}

// Start serves until the listener fails or Shutdown is called
func (s *Server) Start() error {
	s.log.WithField("addr", s.httpServer.Addr).Info("API server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("API server shutting down")
	return s.httpServer.Shutdown(ctx)
}
