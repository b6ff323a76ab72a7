// Package server exposes the stateless reducer and the converters over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/richdraft/internal/logging"
	"github.com/yaklabco/richdraft/pkg/config"
	"github.com/yaklabco/richdraft/pkg/convert"
	"github.com/yaklabco/richdraft/pkg/editor"
)

// Timeouts applied to the listening server.
const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Server routes reducer, conversion and health requests.
type Server struct {
	cfg      *config.Config
	logger   *log.Logger
	metrics  *Metrics
	router   chi.Router
	editor   editor.Options
	importer *convert.Importer
}

// New builds a Server from cfg. A nil logger uses the default logger.
func New(cfg *config.Config, logger *log.Logger) *Server {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if logger == nil {
		logger = logging.Default()
	}

	srv := &Server{
		cfg:     cfg,
		logger:  logger,
		metrics: NewMetrics(),
		editor:  cfg.EditorOptions(),
		importer: convert.NewImporter(convert.ImportOptions{
			Flavor:         string(cfg.Markdown.Flavor),
			Sanitize:       cfg.SanitizeHTML(),
			DetectLanguage: cfg.DetectLanguage(),
		}),
	}
	srv.router = srv.routes()
	return srv
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.limitBody)
		r.Post("/reduce", s.handleReduce)
		r.Post("/export/{format}", s.handleExport)
		r.Post("/import/{format}", s.handleImport)
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Server.Addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return logging.WithLogger(ctx, s.logger) },
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		s.logger.Info("listening", logging.FieldAddr, listener.Addr().String())
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(groupCtx), shutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return group.Wait()
}
