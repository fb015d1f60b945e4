// Package httpadapter serves the rendered map alongside health, readiness and
// metrics endpoints.
package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/qso-mapper/internal/adapter/render"
)

// DocumentSource returns the latest rendered documents, or nil before the
// first run has finished.
type DocumentSource interface {
	Load() *render.Documents
}

// Server exposes the map, its GeoJSON, and the operational endpoints.
type Server struct {
	httpServer *http.Server
	docs       DocumentSource
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /, /qsos.geojson, /healthz, /readyz,
// and /metrics routes.
func NewServer(addr string, docs DocumentSource, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		docs:   docs,
		logger: logger,
	}

	mux.HandleFunc("GET /{$}", s.handleMap)
	mux.HandleFunc("GET /qsos.geojson", s.handleGeoJSON)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleMap(w http.ResponseWriter, _ *http.Request) {
	docs := s.docs.Load()
	if docs == nil {
		sharedobs.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "map not rendered yet"})
		return
	}
	s.write(w, "text/html; charset=utf-8", docs, docs.HTML)
}

func (s *Server) handleGeoJSON(w http.ResponseWriter, _ *http.Request) {
	docs := s.docs.Load()
	if docs == nil {
		sharedobs.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "map not rendered yet"})
		return
	}
	s.write(w, "application/geo+json", docs, docs.GeoJSON)
}

func (s *Server) write(w http.ResponseWriter, contentType string, docs *render.Documents, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("Last-Modified", docs.GeneratedAt.UTC().Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		s.logger.Debug("write response failed", "error", err)
	}
}
