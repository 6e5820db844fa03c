package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/sedbuilder/internal/domain"
	"github.com/couchcryptid/sedbuilder/internal/observability"
	"github.com/couchcryptid/sedbuilder/internal/render"
)

// Fetcher returns a validated SED response for a sky position.
type Fetcher interface {
	GetData(ctx context.Context, ra, dec float64) (*domain.Response, error)
}

// Server exposes the SED API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	fetcher    Fetcher
	renderer   *render.Renderer
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /v1/sed, /healthz, /readyz, and /metrics routes.
// writeTimeout must exceed the upstream request timeout.
func NewServer(addr string, writeTimeout time.Duration, fetcher Fetcher, renderer *render.Renderer, ready sharedobs.ReadinessChecker, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: writeTimeout,
			IdleTimeout:  60 * time.Second,
		},
		fetcher:  fetcher,
		renderer: renderer,
		metrics:  metrics,
		logger:   logger,
	}

	mux.HandleFunc("GET /v1/sed", s.handleSED)
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

func (s *Server) handleSED(w http.ResponseWriter, r *http.Request) {
	req, err := parseSEDRequest(r.URL.Query())
	if err != nil {
		s.fail(w, r, req.format, err)
		return
	}

	resp, err := s.fetcher.GetData(r.Context(), req.ra, req.dec)
	if err != nil {
		s.fail(w, r, req.format, err)
		return
	}

	doc, err := s.renderer.Render(resp, req.format, req.opts)
	if err != nil {
		s.fail(w, r, req.format, err)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("X-Measurements", strconv.Itoa(doc.Stats.Measurements))
	w.Header().Set("X-Warnings-Dropped", strconv.Itoa(doc.Stats.WarningsDropped))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Body); err != nil {
		s.logger.Warn("write response failed", "error", err)
	}
	s.metrics.APIRequests.WithLabelValues(string(req.format), "200").Inc()
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, format render.Format, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("sed request failed", "error", err, "query", r.URL.RawQuery, "status", status)
	} else {
		s.logger.Debug("sed request rejected", "error", err, "query", r.URL.RawQuery)
	}
	s.metrics.APIRequests.WithLabelValues(string(format), strconv.Itoa(status)).Inc()
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}
