// Package metrics exposes the Prometheus instrumentation for the Travel
// Desk API: HTTP traffic, status transition outcomes, and the notification
// pipeline. Metrics are package-level and registered once via Register.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Transition outcome labels. OutcomeConflict means a concurrent writer won
// the compare-and-swap; OutcomeError covers storage failures.
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "traveldesk",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern, and status code.",
		},
		[]string{"method", "route", "status"},
	)

	transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "traveldesk",
			Name:      "status_transitions_total",
			Help:      "Status transition attempts by target status and outcome.",
		},
		[]string{"target", "outcome"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "traveldesk",
			Name:      "notifications_total",
			Help:      "Notification pipeline events by stage (enqueued, delivered, failed, dead_letter).",
		},
		[]string{"stage"},
	)
)

// Register registers all metrics with the default registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, transitions, notifications)
	})
}

// IncHTTP increments the request counter for one handled request.
func IncHTTP(method, route, status string) {
	httpRequests.WithLabelValues(method, route, status).Inc()
}

// IncTransition increments the transition counter for a target/outcome pair.
func IncTransition(target, outcome string) {
	transitions.WithLabelValues(target, outcome).Inc()
}

// IncNotification increments the notification counter for a pipeline stage.
func IncNotification(stage string) {
	notifications.WithLabelValues(stage).Inc()
}
