// Package server provides the ops HTTP server of servicesync. It serves
// liveness, the catalog store status, Prometheus metrics and an
// authenticated endpoint that triggers an import.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/servicesync"
	"github.com/agentstation/servicesync/internal/server/middleware"
	"github.com/agentstation/servicesync/internal/server/response"
	"github.com/agentstation/servicesync/pkg/importer"
	"github.com/agentstation/servicesync/pkg/logging"
	"github.com/agentstation/servicesync/pkg/metrics"
)

// Client is the part of servicesync.Client the server needs.
type Client interface {
	Import(ctx context.Context) (*importer.Result, error)
	Status(ctx context.Context) (*servicesync.Status, error)
}

// Config holds server configuration.
type Config struct {
	Addr string

	// APIKey protects POST /import. Without one the endpoint is not served.
	APIKey     string
	AuthHeader string

	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	ImportTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:          ":9090",
		AuthHeader:    middleware.DefaultAPIKeyHeader,
		ReadTimeout:   10 * time.Second,
		WriteTimeout:  10 * time.Minute,
		IdleTimeout:   120 * time.Second,
		ImportTimeout: 10 * time.Minute,
	}
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	client    Client
	recorder  *metrics.Recorder
	config    Config
	logger    *zerolog.Logger
	startTime time.Time
}

// New creates a server. recorder may be nil, in which case /metrics is
// not served.
func New(client Client, recorder *metrics.Recorder, cfg Config, logger *zerolog.Logger) *Server {
	if logger == nil {
		logger = logging.Default()
	}
	return &Server{
		client:    client,
		recorder:  recorder,
		config:    cfg,
		logger:    logger,
		startTime: time.Now(),
	}
}

// Handler returns the routes wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /status", s.handleStatus)
	if s.config.APIKey != "" {
		mux.Handle("POST /import", middleware.RequireAPIKey(s.config.AuthHeader, s.config.APIKey)(http.HandlerFunc(s.handleImport)))
	}
	if s.recorder != nil {
		mux.Handle("GET /metrics", s.recorder.Handler())
	}

	return middleware.Chain(
		middleware.Recovery(s.logger),
		middleware.Logger(s.logger),
	)(mux)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.config.ReadTimeout,
		ReadTimeout:       s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info().Str("addr", ln.Addr().String()).Msg("Ops server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info().Msg("Ops server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status": "healthy",
		"uptime": time.Since(s.startTime).Round(time.Second).String(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.client.Status(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Msg("Status failed")
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, status)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.config.ImportTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.ImportTimeout)
		defer cancel()
	}

	result, err := s.client.Import(ctx)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, result)
}
