// Package metrics defines the Prometheus collectors for the vendor API and the
// order intake worker.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	ReportsTotal         *prometheus.CounterVec
	VendorsProvisioned   prometheus.Counter
	OrdersIngestedTotal  *prometheus.CounterVec
	LoginAttemptsTotal   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, route, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		ReportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_reports_total",
				Help: "Dashboard reports computed, by report and outcome (ok, degraded, error).",
			},
			[]string{"report", "outcome"},
		),
		VendorsProvisioned: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "vendors_provisioned_total",
				Help: "Vendor records created on first sight of a caller.",
			},
		),
		OrdersIngestedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_ingested_total",
				Help: "Order intake messages by result (stored, rejected, retried).",
			},
			[]string{"result"},
		),
		LoginAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "delivery_login_attempts_total",
				Help: "Delivery staff login attempts by result.",
			},
			[]string{"result"},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.HTTPRequestsTotal,
			m.HTTPRequestDuration,
			m.HTTPRequestsInFlight,
			m.ReportsTotal,
			m.VendorsProvisioned,
			m.OrdersIngestedTotal,
			m.LoginAttemptsTotal,
		)
	}
	return m
}

func (m *Metrics) Report(report, outcome string) {
	if m == nil {
		return
	}
	m.ReportsTotal.WithLabelValues(report, outcome).Inc()
}

func (m *Metrics) VendorProvisioned() {
	if m == nil {
		return
	}
	m.VendorsProvisioned.Inc()
}

func (m *Metrics) OrderIngested(result string) {
	if m == nil {
		return
	}
	m.OrdersIngestedTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) LoginAttempt(result string) {
	if m == nil {
		return
	}
	m.LoginAttemptsTotal.WithLabelValues(result).Inc()
}

// Handler returns the scrape handler for g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
