package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge
	RateLimited     prometheus.Counter

	CalculationsTotal   *prometheus.CounterVec
	CalculationDuration *prometheus.HistogramVec
	SessionsOpen        prometheus.Gauge
	SessionsEvicted     prometheus.Counter

	HistoryEntriesTotal  prometheus.Counter
	HistoryBufferDropped prometheus.Counter
	HistoryWriteErrors   prometheus.Counter

	gatherer prometheus.Gatherer
}

// NewCollector registers every metric on reg. A nil reg gets a private
// registry, which keeps tests free of duplicate-registration panics.
func NewCollector(namespace string, reg *prometheus.Registry) *Collector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Collector{
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "path", "status"}),

		InFlightGauge: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		RateLimited: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the per-client rate limiter.",
		}),

		CalculationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "calculations_total",
			Help:      "Calculations by tool and outcome (ok, invalid_input, not_implemented).",
		}, []string{"tool", "outcome"}),

		CalculationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "calculation_duration_seconds",
			Help:      "Calculation latency by tool.",
			Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		}, []string{"tool"}),

		SessionsOpen: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "sessions_open",
			Help:      "Current number of open report sessions.",
		}),

		SessionsEvicted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "sessions_evicted_total",
			Help:      "Report sessions removed after sitting idle.",
		}),

		HistoryEntriesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "entries_total",
			Help:      "Total calculation history entries written.",
		}),

		HistoryBufferDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "buffer_dropped_total",
			Help:      "History entries dropped due to full buffer. Alert if non-zero.",
		}),

		HistoryWriteErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "write_errors_total",
			Help:      "History entries that failed to persist.",
		}),

		gatherer: reg,
	}
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
