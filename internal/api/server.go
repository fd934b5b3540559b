package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/Project-Sylos/Courier/internal/sandbox"
	"github.com/Project-Sylos/Courier/internal/types"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Server represents the HTTP API server
type Server struct {
	router *chi.Mux
	sb     *sandbox.Sandbox
	http   *http.Server
	log    *zap.Logger
}

// NewServer creates a new API server listening on the configured address
func NewServer(sb *sandbox.Sandbox, cfg *types.SandboxConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	router := NewRouter(sb, logger).SetupRoutes()

	return &Server{
		router: router,
		sb:     sb,
		log:    logger,
		http: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:      router,
			ReadTimeout:  15 * time.Minute,
			WriteTimeout: 15 * time.Minute,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.http.Addr
}

// GetRouter returns the configured router
func (s *Server) GetRouter() *chi.Mux {
	return s.router
}

// Start serves until Stop is called. It returns nil after a clean
// shutdown.
func (s *Server) Start() error {
	s.log.Info("sandbox listening",
		zap.String("addr", s.http.Addr),
		zap.String("upload_server", s.sb.Server()),
	)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Stop gracefully shuts the HTTP server down, then closes the sandbox
func (s *Server) Stop(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	return s.sb.Close()
}
