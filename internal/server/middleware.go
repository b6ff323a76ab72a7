package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/yaklabco/richdraft/internal/logging"
)

// requestLogger logs one line per request and stores a request-scoped
// logger in the context.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		logger := s.logger.With(logging.FieldRequestID, middleware.GetReqID(r.Context()))
		ctx := logging.WithLogger(r.Context(), logger)

		next.ServeHTTP(ww, r.WithContext(ctx))

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		s.metrics.observeRequest(r.Method, route, ww.Status(), elapsed)

		logger.Debug("request",
			logging.FieldMethod, r.Method,
			logging.FieldRoute, route,
			logging.FieldStatus, ww.Status(),
			logging.FieldDuration, elapsed,
		)
	})
}

// limitBody caps request bodies at server.max_body_bytes.
func (s *Server) limitBody(next http.Handler) http.Handler {
	limit := s.cfg.Server.MaxBodyBytes
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if limit > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
		}
		next.ServeHTTP(w, r)
	})
}
