package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kemea",
		Name:      "http_requests_total",
		Help:      "Served HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "kemea",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	OTPIssued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kemea",
		Name:      "otp_issued_total",
		Help:      "One-time passcodes issued by purpose.",
	}, []string{"purpose"})

	OTPVerifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kemea",
		Name:      "otp_verifications_total",
		Help:      "One-time passcode checks by purpose and outcome.",
	}, []string{"purpose", "outcome"})

	OutboxDispatched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kemea",
		Name:      "outbox_emails_total",
		Help:      "Outbox email delivery attempts by result.",
	}, []string{"result"})

	Registrations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kemea",
		Name:      "registrations_total",
		Help:      "Completed registrations by account kind and referral use.",
	}, []string{"kind", "referred"})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HTTPRequests,
		HTTPDuration,
		OTPIssued,
		OTPVerifications,
		OutboxDispatched,
		Registrations,
	)
}

// Registry exposes the process registry, mainly for tests.
func Registry() *prometheus.Registry {
	return registry
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
