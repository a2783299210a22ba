package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Launch Metrics
var (
	// LaunchesTotal tracks launch requests by resolved action and outcome
	LaunchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dock_launches_total",
			Help: "Total launches by action and result",
		},
		[]string{"action", "result"},
	)
)

// Configuration Metrics
var (
	// ConfigSavesTotal tracks configuration writes
	ConfigSavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dock_config_saves_total",
			Help: "Total configuration saves by result",
		},
		[]string{"result"},
	)

	// ConfigReloadsTotal tracks snapshot swaps by what caused them
	ConfigReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dock_config_reloads_total",
			Help: "Total configuration reloads by source",
		},
		[]string{"source"},
	)

	// ConfigItems tracks the number of shortcuts in the live configuration
	ConfigItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dock_config_items",
			Help: "Number of items in the current configuration",
		},
	)
)

// Usage Metrics
var (
	// UsageCollectedTotal tracks usage records removed by the garbage collector
	UsageCollectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dock_usage_collected_total",
			Help: "Total orphaned usage records garbage collected",
		},
	)
)

// HTTP Metrics
var (
	// HTTPRequestsTotal tracks control API requests by route pattern and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dock_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks control API latency
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dock_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"method", "route"},
	)
)

// Result maps an error to the result label.
func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
