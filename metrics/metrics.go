// Package metrics exposes Prometheus collectors for outbound Scrape.do calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the client collectors.
type Metrics struct {
	Requests        *prometheus.CounterVec
	Duration        *prometheus.HistogramVec
	BilledFailures  prometheus.Counter
	EstimatedCredit *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg
// leaves them unregistered, which tests rely on.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scrapedo_requests_total",
				Help: "Scrape.do calls by mode and outcome (success or error type).",
			},
			[]string{"mode", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scrapedo_request_duration_seconds",
				Help:    "Scrape.do call duration in seconds.",
				Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 20, 30, 60, 120},
			},
			[]string{"mode"},
		),
		BilledFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "scrapedo_billed_failures_total",
				Help: "Failed calls that Scrape.do still billed.",
			},
		),
		EstimatedCredit: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scrapedo_estimated_credits_total",
				Help: "Locally estimated credits of successful calls.",
			},
			[]string{"mode"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Requests, m.Duration, m.BilledFailures, m.EstimatedCredit)
	}
	return m
}

// ObserveSuccess records a completed call.
func (m *Metrics) ObserveSuccess(mode string, elapsed time.Duration, credits int) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(mode, "success").Inc()
	m.Duration.WithLabelValues(mode).Observe(elapsed.Seconds())
	m.EstimatedCredit.WithLabelValues(mode).Add(float64(credits))
}

// ObserveFailure records a classified failure.
func (m *Metrics) ObserveFailure(mode, errorType string, elapsed time.Duration, billed bool) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(mode, errorType).Inc()
	m.Duration.WithLabelValues(mode).Observe(elapsed.Seconds())
	if billed {
		m.BilledFailures.Inc()
	}
}
