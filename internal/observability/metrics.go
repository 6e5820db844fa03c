package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sedbuilder"

// Outcome label values for UpstreamRequests.
const (
	OutcomeSuccess         = "success"
	OutcomeTimeout         = "timeout"
	OutcomeStatusError     = "status_error"
	OutcomeConnectionError = "connection_error"
	OutcomeCanceled        = "canceled"
)

// Metrics holds the Prometheus counters and histograms for upstream requests,
// table projection and exports.
type Metrics struct {
	// Upstream SED Builder metrics.
	UpstreamRequests *prometheus.CounterVec // labels: outcome={success,timeout,status_error,connection_error,canceled}
	UpstreamDuration prometheus.Histogram

	// Projection metrics.
	RowsProjected      prometheus.Counter
	WarningRowsDropped prometheus.Counter

	// Export metrics.
	DocumentsExported *prometheus.CounterVec // labels: format
	ExportErrors      *prometheus.CounterVec // labels: stage={fetch,render,load}
	ExportDuration    prometheus.Histogram

	// HTTP API metrics.
	APIRequests *prometheus.CounterVec // labels: format, code
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}
	return &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      help("SED Builder getData requests by outcome."),
		}, []string{"outcome"}),
		UpstreamDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      help("SED Builder getData request duration in seconds."),
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		RowsProjected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_projected_total",
			Help:      help("Measurement rows written to flat tables."),
		}),
		WarningRowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warning_rows_dropped_total",
			Help:      help("Warning-only rows left out of flat tables."),
		}),
		DocumentsExported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_exported_total",
			Help:      help("Rendered SED documents handed to a sink, by format."),
		}, []string{"format"}),
		ExportErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "export_errors_total",
			Help:      help("Export failures by pipeline stage."),
		}, []string{"stage"}),
		ExportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "export_duration_seconds",
			Help:      help("Duration of a complete fetch-render-load cycle."),
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      help("HTTP API requests by output format and status code."),
		}, []string{"format", "code"}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)
	prometheus.MustRegister(
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.RowsProjected,
		m.WarningRowsDropped,
		m.DocumentsExported,
		m.ExportErrors,
		m.ExportDuration,
		m.APIRequests,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}
