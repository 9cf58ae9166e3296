// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Fetch metrics
	EventsFetched  *prometheus.CounterVec
	EventsFiltered *prometheus.CounterVec
	SourceFailures *prometheus.CounterVec
	FetchLatency   *prometheus.HistogramVec

	// Parse metrics
	SwapsParsed     prometheus.Counter
	ParseRejections *prometheus.CounterVec

	// Pool metrics
	PoolsNormalized prometheus.Counter
	PoolsRejected   *prometheus.CounterVec

	// Consolidation metrics
	PairsTracked   prometheus.Gauge
	RecordsTracked prometheus.Gauge

	// Pipeline metrics
	PipelineRunsTotal *prometheus.CounterVec
	PipelineDuration  prometheus.Histogram

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Stream metrics
	StreamReconnects prometheus.Counter
	StreamMessages   prometheus.Counter

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "wax_dex_monitor"
	}

	return &Metrics{
		// Fetch metrics
		EventsFetched: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "events_fetched_total",
			Help:      "Total number of transfer events fetched by source",
		}, []string{"source"}),
		EventsFiltered: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "events_filtered_total",
			Help:      "Total number of transfer events dropped by filter",
		}, []string{"source", "reason"}),
		SourceFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "source_failures_total",
			Help:      "Total number of failed source fetches",
		}, []string{"source"}),
		FetchLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "latency_seconds",
			Help:      "History API fetch latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),

		// Parse metrics
		SwapsParsed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "parse",
			Name:      "swaps_parsed_total",
			Help:      "Total number of swap facts extracted from memos",
		}),
		ParseRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "parse",
			Name:      "rejections_total",
			Help:      "Total number of memo parse rejections by reason",
		}, []string{"reason"}),

		// Pool metrics
		PoolsNormalized: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pools",
			Name:      "normalized_total",
			Help:      "Total number of pool snapshots normalized",
		}),
		PoolsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pools",
			Name:      "rejected_total",
			Help:      "Total number of pool snapshots rejected by reason",
		}, []string{"reason"}),

		// Consolidation metrics
		PairsTracked: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "pairs_tracked",
			Help:      "Number of canonical pairs in the current market map",
		}),
		RecordsTracked: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "records_tracked",
			Help:      "Number of pair-source records in the current market map",
		}),

		// Pipeline metrics
		PipelineRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by status",
		}, []string{"status"}),
		PipelineDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Pipeline execution duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Stream metrics
		StreamReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "reconnects_total",
			Help:      "Total number of WebSocket reconnects",
		}),
		StreamMessages: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "messages_total",
			Help:      "Total number of WebSocket messages received",
		}),

		// Health metrics
		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful pipeline run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordEventsFetched adds to the fetched counter for a source.
func RecordEventsFetched(source string, count int) {
	DefaultMetrics.EventsFetched.WithLabelValues(source).Add(float64(count))
}

// RecordEventFiltered increments the filtered counter for a source and reason.
func RecordEventFiltered(source, reason string) {
	DefaultMetrics.EventsFiltered.WithLabelValues(source, reason).Inc()
}

// RecordSourceFailure increments the source failure counter.
func RecordSourceFailure(source string) {
	DefaultMetrics.SourceFailures.WithLabelValues(source).Inc()
}

// RecordSwapParsed increments the swaps parsed counter.
func RecordSwapParsed() {
	DefaultMetrics.SwapsParsed.Inc()
}

// RecordParseRejection increments the parse rejection counter.
func RecordParseRejection(reason string) {
	DefaultMetrics.ParseRejections.WithLabelValues(reason).Inc()
}

// RecordPoolNormalized increments the pools normalized counter.
func RecordPoolNormalized() {
	DefaultMetrics.PoolsNormalized.Inc()
}

// RecordPoolRejected increments the pool rejection counter.
func RecordPoolRejected(reason string) {
	DefaultMetrics.PoolsRejected.WithLabelValues(reason).Inc()
}

// UpdateMarketSize updates the market map gauges.
func UpdateMarketSize(pairs, records int) {
	DefaultMetrics.PairsTracked.Set(float64(pairs))
	DefaultMetrics.RecordsTracked.Set(float64(records))
}

// RecordPipelineRun records a pipeline run.
func RecordPipelineRun(status string, durationSeconds float64) {
	DefaultMetrics.PipelineRunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.PipelineDuration.Observe(durationSeconds)
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
