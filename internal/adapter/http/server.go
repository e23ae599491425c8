package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/couchcryptid/bikeshare-dashboard/internal/domain"
	"github.com/couchcryptid/bikeshare-dashboard/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dataset is the prepared, read-only table the API serves from.
type Dataset interface {
	CheckReadiness(ctx context.Context) error
	Snapshot(ctx context.Context) (domain.Snapshot, error)
}

// Options tunes the data overview view.
type Options struct {
	SampleRows int
	SampleSeed uint64
}

// Server exposes health, readiness, metrics, and the dashboard API.
type Server struct {
	httpServer *http.Server
	dataset    Dataset
	opts       Options
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// envelope wraps every API payload with the provenance of the table it came from.
type envelope struct {
	Name       string     `json:"name"`
	Source     string     `json:"source,omitempty"`
	PreparedAt *time.Time `json:"prepared_at,omitempty"`
	Data       any        `json:"data"`
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and the
// /api/v1 view and aggregate routes.
func NewServer(addr string, dataset Dataset, opts Options, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dataset: dataset,
		opts:    opts,
		metrics: metrics,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(dataset))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/v1/views", s.handleListViews)
	mux.HandleFunc("GET /api/v1/views/{view}", s.handleView)
	mux.HandleFunc("GET /api/v1/aggregates", s.handleListAggregates)
	mux.HandleFunc("GET /api/v1/aggregates/{name}", s.handleAggregate)

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

func (s *Server) handleListViews(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{"views": domain.Views()})
}

func (s *Server) handleListAggregates(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{"aggregates": domain.Queries()})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	view, err := domain.ParseView(r.PathValue("view"))
	if err != nil {
		s.notFound(w, err)
		return
	}
	name := string(view)

	// The introduction is static and is served before the dataset is ready.
	if view == domain.ViewIntroduction {
		s.observe(name, "success", time.Now())
		sharedobs.WriteJSON(w, http.StatusOK, envelope{Name: name, Data: domain.NewIntroduction()})
		return
	}

	s.serve(w, r, name, func(t domain.Table) (any, error) {
		if view == domain.ViewDataOverview {
			return domain.NewOverview(t, s.opts.SampleRows, s.opts.SampleSeed), nil
		}
		return domain.NewVisualizations(t, s.opts.SampleRows, s.opts.SampleSeed), nil
	})
}

func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	q := domain.Query(r.PathValue("name"))
	if !slices.Contains(domain.Queries(), q) {
		s.notFound(w, domain.ErrUnknownQuery)
		return
	}

	s.serve(w, r, string(q), func(t domain.Table) (any, error) {
		return domain.RunQuery(t, q)
	})
}

// serve resolves the snapshot, runs compute over its table and writes the
// enveloped result. It answers 503 until the dataset is prepared.
func (s *Server) serve(w http.ResponseWriter, r *http.Request, name string, compute func(domain.Table) (any, error)) {
	start := time.Now()

	if err := s.dataset.CheckReadiness(r.Context()); err != nil {
		s.observe(name, "unavailable", start)
		sharedobs.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	snap, err := s.dataset.Snapshot(r.Context())
	if err != nil {
		s.logger.Error("dataset snapshot failed", "query", name, "error", err)
		s.observe(name, "unavailable", start)
		sharedobs.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}

	data, err := compute(snap.Table)
	if err != nil {
		s.logger.Error("query failed", "query", name, "error", err)
		s.observe(name, "error", start)
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrUnknownQuery) {
			status = http.StatusNotFound
		}
		sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	s.observe(name, "success", start)
	preparedAt := snap.PreparedAt
	sharedobs.WriteJSON(w, http.StatusOK, envelope{
		Name:       name,
		Source:     snap.Source,
		PreparedAt: &preparedAt,
		Data:       data,
	})
}

func (s *Server) notFound(w http.ResponseWriter, err error) {
	s.metrics.QueryRequests.WithLabelValues("unknown", "not_found").Inc()
	sharedobs.WriteJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
}

func (s *Server) observe(name, outcome string, start time.Time) {
	s.metrics.QueryRequests.WithLabelValues(name, outcome).Inc()
	if outcome == "success" {
		s.metrics.QueryDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}
}
