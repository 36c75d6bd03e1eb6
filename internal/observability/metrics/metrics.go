package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "chargepoint_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	datasetBuildTotal   *prometheus.CounterVec
	datasetBuildLatency *prometheus.HistogramVec

	queryTotal   *prometheus.CounterVec
	queryLatency *prometheus.HistogramVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec
)

// Init registers observability metrics.
func Init() {
	registerOnce.Do(func() {
		datasetBuildTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "dataset_build_total",
				Help: "Total canonical dataset builds by result",
			},
			[]string{"result"},
		)
		datasetBuildLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "dataset_build_latency_seconds",
				Help:    "Canonical dataset build latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		queryTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "query_total",
				Help: "Total aggregation queries by mode and result",
			},
			[]string{"mode", "result"},
		)
		queryLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "query_latency_seconds",
				Help:    "Aggregation query latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"mode", "result"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total view exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "View export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			datasetBuildTotal,
			datasetBuildLatency,
			queryTotal,
			queryLatency,
			exportTotal,
			exportLatency,
		)
	})
}

// ObserveDatasetBuild records dataset build duration and result.
func ObserveDatasetBuild(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if datasetBuildTotal != nil {
		datasetBuildTotal.WithLabelValues(result).Inc()
	}
	if datasetBuildLatency != nil {
		datasetBuildLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveQuery records query duration by mode and result.
func ObserveQuery(mode, result string, duration time.Duration) {
	if mode == "" {
		mode = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if queryTotal != nil {
		queryTotal.WithLabelValues(mode, result).Inc()
	}
	if queryLatency != nil {
		queryLatency.WithLabelValues(mode, result).Observe(duration.Seconds())
	}
}

// ObserveExport records export duration by format and result.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
