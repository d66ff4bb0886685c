// Package httpadapter exposes the query engine over HTTP: a filtered
// close-approach endpoint plus health, readiness, and metrics routes.
package httpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/neo-approach-service/internal/database"
	"github.com/couchcryptid/neo-approach-service/internal/export"
	"github.com/couchcryptid/neo-approach-service/internal/filters"
	"github.com/couchcryptid/neo-approach-service/internal/observability"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the close-approach query API.
type Server struct {
	httpServer *http.Server
	db         *database.Database
	cache      *responseCache
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /approaches, /healthz, /readyz, and
// /metrics routes. Identical queries are served from an LRU cache of
// serialized responses sized by cacheSize.
func NewServer(addr string, db *database.Database, ready ReadinessChecker, cacheSize int, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		db:      db,
		cache:   newResponseCache(cacheSize),
		metrics: metrics,
		logger:  logger,
	}

	mux.HandleFunc("GET /approaches", s.handleApproaches)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
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

func (s *Server) handleApproaches(w http.ResponseWriter, r *http.Request) {
	criteria, limit, err := parseQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	// url.Values.Encode sorts keys, so equivalent queries share one entry.
	key := r.URL.Query().Encode()
	if body, ok := s.cache.get(key); ok {
		s.metrics.CacheLookups.WithLabelValues("hit").Inc()
		writeJSONBytes(w, body)
		return
	}
	s.metrics.CacheLookups.WithLabelValues("miss").Inc()

	start := time.Now()
	records := make([]export.Record, 0)
	for ca := range filters.Limit(s.db.Query(filters.Create(criteria)), limit) {
		records = append(records, export.NewRecord(ca))
	}

	body, err := json.Marshal(records)
	if err != nil {
		s.logger.Error("serializing query response", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	s.metrics.QueriesTotal.Inc()
	s.metrics.QueryDuration.Observe(time.Since(start).Seconds())
	s.metrics.QueryResults.Observe(float64(len(records)))

	s.cache.put(key, body)
	writeJSONBytes(w, body)
}

// parseQuery maps URL parameters onto query criteria. Unknown parameters are
// ignored; malformed values are an error.
func parseQuery(r *http.Request) (filters.Criteria, int, error) {
	var c filters.Criteria
	q := r.URL.Query()

	date := func(param string, dst **time.Time) error {
		v := q.Get(param)
		if v == "" {
			return nil
		}
		t, err := time.ParseInLocation(time.DateOnly, v, time.UTC)
		if err != nil {
			return fmt.Errorf("invalid %s %q (want YYYY-MM-DD)", param, v)
		}
		*dst = &t
		return nil
	}
	number := func(param string, dst **float64) error {
		v := q.Get(param)
		if v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q", param, v)
		}
		*dst = &f
		return nil
	}

	for _, parse := range []error{
		date("date", &c.Date),
		date("start_date", &c.StartDate),
		date("end_date", &c.EndDate),
		number("min_distance", &c.DistanceMin),
		number("max_distance", &c.DistanceMax),
		number("min_velocity", &c.VelocityMin),
		number("max_velocity", &c.VelocityMax),
		number("min_diameter", &c.DiameterMin),
		number("max_diameter", &c.DiameterMax),
	} {
		if parse != nil {
			return filters.Criteria{}, 0, parse
		}
	}

	if v := q.Get("hazardous"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filters.Criteria{}, 0, fmt.Errorf("invalid hazardous %q", v)
		}
		c.Hazardous = &b
	}

	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filters.Criteria{}, 0, fmt.Errorf("invalid limit %q", v)
		}
		limit = n
	}

	return c, limit, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort health response
}

func writeJSONBytes(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body) //nolint:errcheck // client gone, nothing to do
}
