package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// query service.
type Metrics struct {
	NEOsLoaded       prometheus.Gauge
	ApproachesLoaded prometheus.Gauge
	DatasetReady     prometheus.Gauge

	QueriesTotal  prometheus.Counter
	QueryDuration prometheus.Histogram
	QueryResults  prometheus.Histogram

	// Query API response cache lookups. labels: result={hit,miss}
	CacheLookups *prometheus.CounterVec

	// Kafka publishing metrics.
	ApproachesPublished prometheus.Counter
	PublishBatchSize    prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.NEOsLoaded,
		m.ApproachesLoaded,
		m.DatasetReady,
		m.QueriesTotal,
		m.QueryDuration,
		m.QueryResults,
		m.CacheLookups,
		m.ApproachesPublished,
		m.PublishBatchSize,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		NEOsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "neo_query",
			Name:      "neos_loaded",
			Help:      "Number of near-Earth objects in the loaded data set.",
		}),
		ApproachesLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "neo_query",
			Name:      "approaches_loaded",
			Help:      "Number of close approaches in the loaded data set.",
		}),
		DatasetReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "neo_query",
			Name:      "dataset_ready",
			Help:      "1 when the database is loaded and linked, 0 otherwise.",
		}),
		QueriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neo_query",
			Name:      "queries_total",
			Help:      "Total filtered queries executed.",
		}),
		QueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "neo_query",
			Name:      "query_duration_seconds",
			Help:      "Duration of a complete query-and-serialize cycle.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		QueryResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "neo_query",
			Name:      "query_results",
			Help:      "Number of approaches returned per query.",
			Buckets:   []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neo_query",
			Name:      "cache_lookups_total",
			Help:      "Query API response cache lookups by result.",
		}, []string{"result"}),
		ApproachesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neo_query",
			Name:      "approaches_published_total",
			Help:      "Total close approaches published to the sink topic.",
		}),
		PublishBatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "neo_query",
			Name:      "publish_batch_size",
			Help:      "Number of messages per batch written to Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
	}
}
