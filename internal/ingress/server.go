// Package ingress validates incoming search requests, invokes the
// racing engine, and serializes the result.
package ingress

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DefaultRequestTimeout bounds how long a search is allowed to run
// before the ingress layer gives up and reports no path found, per
// spec.md §5's allowance for an ingress-level deployment timeout.
const DefaultRequestTimeout = 60 * time.Second

// Racer is the subset of racer.Engine the ingress layer depends on.
type Racer interface {
	Race(ctx context.Context, source, destination string) ([]string, error)
}

// Config configures a Server.
type Config struct {
	Racer          Racer
	Logger         *zap.Logger
	RequestTimeout time.Duration
}

// Server is the HTTP ingress adapter.
type Server struct {
	racer          Racer
	logger         *zap.Logger
	requestTimeout time.Duration
}

// NewServer builds a Server from its configuration.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Server{racer: cfg.Racer, logger: logger, requestTimeout: timeout}
}

// Router assembles the HTTP routes. "/api/ping" is an unauthenticated
// liveness check; "POST /api/links" runs a search.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestIDMiddleware)
	r.Use(s.recoverer)
	r.Use(s.loggingMiddleware)

	r.Get("/api/ping", s.handlePing)
	r.Post("/api/links", s.handleRace)

	return r
}
