package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bikeshare"

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard service.
type Metrics struct {
	// Dataset preparation metrics.
	RowsRead          prometheus.Counter
	RowsPrepared      prometheus.Counter
	PrepareErrors     *prometheus.CounterVec // labels: kind={schema,category,parse,empty,io}
	CategoriesLeftRaw *prometheus.CounterVec // labels: column
	PrepareDuration   prometheus.Histogram
	DatasetReady      prometheus.Gauge
	AuditFindings     *prometheus.CounterVec // labels: check

	// Query metrics.
	QueryRequests *prometheus.CounterVec   // labels: query, outcome={success,error,unavailable}
	QueryDuration *prometheus.HistogramVec // labels: query

	// Publication metrics.
	MessagesProduced prometheus.Counter
	PublishEnabled   prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.RowsRead,
		m.RowsPrepared,
		m.PrepareErrors,
		m.CategoriesLeftRaw,
		m.PrepareDuration,
		m.DatasetReady,
		m.AuditFindings,
		m.QueryRequests,
		m.QueryDuration,
		m.MessagesProduced,
		m.PublishEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics that are not registered anywhere, to
// avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Total data rows read from the dataset file.",
		}),
		RowsPrepared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_prepared_total",
			Help:      "Total rows recoded and rescaled into the prepared table.",
		}),
		PrepareErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prepare_errors_total",
			Help:      "Dataset preparation failures by kind.",
		}, []string{"kind"}),
		CategoriesLeftRaw: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "categories_left_raw_total",
			Help:      "Unknown category codes kept as raw values in lenient mode.",
		}, []string{"column"}),
		PrepareDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prepare_duration_seconds",
			Help:      "Duration of loading and preparing the dataset.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		DatasetReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_ready",
			Help:      "1 once the dataset has been prepared, 0 otherwise.",
		}),
		AuditFindings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_findings_total",
			Help:      "Data-quality findings on the prepared table by check.",
		}, []string{"check"}),
		QueryRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_requests_total",
			Help:      "View and aggregate requests by query and outcome.",
		}, []string{"query", "outcome"}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Time spent computing a view or aggregate.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"query"}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_produced_total",
			Help:      "Total daily traffic messages written to Kafka.",
		}),
		PublishEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "publish_enabled",
			Help:      "1 when daily traffic publication to Kafka is enabled, 0 otherwise.",
		}),
	}
}
