// Package metrics provides Prometheus collectors for the skill and webhook.
// Labels stay low-cardinality: no printer, user, or session identifiers.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TurnsTotal counts conversational turns by handler and outcome.
	TurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bamvoo_skill_turns_total",
		Help: "Total number of conversational turns, by handler and outcome.",
	}, []string{"handler", "outcome"})

	// UpstreamCallsTotal counts printer API calls by operation and result.
	UpstreamCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bamvoo_printer_api_calls_total",
		Help: "Total number of printer API calls, by operation and result.",
	}, []string{"operation", "result"})

	// UpstreamCallDuration observes printer API latency by operation.
	UpstreamCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bamvoo_printer_api_call_duration_seconds",
		Help:    "Printer API call latencies in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// WebhookEventsTotal counts webhook deliveries by event type and outcome.
	WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bamvoo_webhook_events_total",
		Help: "Total number of webhook events, by event type and outcome.",
	}, []string{"event_type", "outcome"})

	// HTTPRequestDuration observes request latency by route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bamvoo_http_request_duration_seconds",
		Help:    "HTTP request latencies in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	HTTPRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bamvoo_http_requests_in_flight",
		Help: "Current number of HTTP requests being served.",
	})
)

const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeSkipped  = "skipped"
	OutcomeIgnored  = "ignored"
	OutcomeFallback = "fallback"
)

// RecordTurn increments the turn counter.
func RecordTurn(handler, outcome string) {
	TurnsTotal.WithLabelValues(handler, outcome).Inc()
}

// RecordUpstreamCall records one printer API call.
func RecordUpstreamCall(operation string, seconds float64, err error) {
	result := OutcomeOK
	if err != nil {
		result = OutcomeError
	}
	UpstreamCallsTotal.WithLabelValues(operation, result).Inc()
	UpstreamCallDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordHTTPRequest observes one served request. route should be the router
// pattern, never the raw path.
func RecordHTTPRequest(method, route string, status int, seconds float64) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(seconds)
}

// RecordWebhookEvent increments the webhook counter. Unknown event types are
// folded into a single label value.
func RecordWebhookEvent(eventType string, known bool, outcome string) {
	if !known {
		eventType = "unknown"
	}
	WebhookEventsTotal.WithLabelValues(eventType, outcome).Inc()
}
