// Package server exposes a filestore.MessageStore over HTTP: a Connect
// service for Save, Read and FilePath, a Prometheus metrics endpoint and a
// health check. It also owns the application Config.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tailored-agentic-units/msgstore/filestore"
	"github.com/tailored-agentic-units/msgstore/observability"
)

const shutdownTimeout = 5 * time.Second

// OpenStore builds a MessageStore from cfg. Events go to the observer named
// in cfg, emitting through logger. When reg is non-nil the store's cache
// metrics are registered on it.
func OpenStore(cfg *Config, logger *slog.Logger, reg prometheus.Registerer) (*filestore.MessageStore, error) {
	observer, err := observability.New(cfg.Observer, logger)
	if err != nil {
		return nil, err
	}

	var cacheOpts []filestore.CacheOption
	if reg != nil {
		cacheOpts = append(cacheOpts, filestore.WithMetrics(reg))
	}
	cache, err := filestore.NewCache(cacheOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	return filestore.NewStore(&cfg.Store, filestore.WithObserver(observer), filestore.WithCache(cache))
}

// NewRegistry returns a Prometheus registry carrying the Go runtime and
// process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Server serves one MessageStore over HTTP.
type Server struct {
	addr   string
	mux    *http.ServeMux
	logger *slog.Logger
}

// New creates a Server for store. When registry is nil the metrics endpoint
// is not mounted.
func New(cfg *Config, store *filestore.MessageStore, registry *prometheus.Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	path, handler := NewHandler(store)
	mux.Handle(path, handler)

	if registry != nil {
		metricsPath := cfg.MetricsPath
		if metricsPath == "" {
			metricsPath = defaultMetricsPath
		}
		mux.Handle(metricsPath, promhttp.HandlerFor(registry, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	}

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	addr := cfg.Addr
	if addr == "" {
		addr = defaultAddr
	}

	return &Server{addr: addr, mux: mux, logger: logger}
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run listens on the configured address and serves until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger.Info("msgstore server listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("msgstore server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
