// Package http exposes the memory service as a small JSON API.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/sandevgo/teammem/internal/config"
	"github.com/sandevgo/teammem/internal/core"
	"github.com/sandevgo/teammem/internal/metrics"
	"github.com/sandevgo/teammem/pkg/log"
)

type Server struct {
	cfg     *config.HTTPConfig
	server  *http.Server
	handler *Handler
}

func NewServer(ctx context.Context, cfg *config.HTTPConfig, memory core.MemoryService, m *metrics.Collector) *Server {
	h := NewHandler(memory, m)
	return &Server{
		cfg:     cfg,
		handler: h,
		server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           h.Router(ctx),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.cfg.Addr).Msg("starting http server")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	// Bound the drain; the caller's ctx carries no deadline.
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()

	log.FromCtx(ctx).Info().Msg("shutting down http server")
	return s.server.Shutdown(shutdownCtx)
}

// Router builds the mux with logging and metrics middleware. Request
// contexts inherit the logger from ctx.
func (h *Handler) Router(ctx context.Context) *mux.Router {
	r := mux.NewRouter()
	r.Use(h.withBaseContext(ctx), h.instrument)

	r.HandleFunc("/", h.health).Methods(http.MethodGet)
	r.Handle("/metrics", h.metrics.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/memories", h.createMemory).Methods(http.MethodPost)
	r.HandleFunc("/memories/recent", h.recentMemories).Methods(http.MethodGet)
	r.HandleFunc("/memories/{id}", h.getMemory).Methods(http.MethodGet)
	r.HandleFunc("/query", h.query).Methods(http.MethodPost)
	r.HandleFunc("/ask", h.ask).Methods(http.MethodPost)

	return r
}
