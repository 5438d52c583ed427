// Package prometheus provides Prometheus metrics for the voice agent.
package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "voiceagent"

var (
	// sessionsActive is a gauge of currently connected call sessions.
	sessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of currently connected call sessions",
		},
	)

	// turnsTotal is a counter of handled conversation turns.
	turnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Total number of handled conversation turns",
		},
		[]string{"interaction_type"},
	)

	// turnDuration is a histogram of full turn duration in seconds.
	turnDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_duration_seconds",
			Help:      "Histogram of full turn duration in seconds",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// dispatchTotal is a counter of function dispatches.
	dispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_total",
			Help:      "Total number of function dispatches",
		},
		[]string{"function", "status"}, // status: success, error
	)

	// streamFailuresTotal is a counter of backend stream failures.
	streamFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_failures_total",
			Help:      "Total number of backend stream failures",
		},
	)

	// ignoredCallsTotal counts function-call declarations ignored because a
	// call was already dispatched in the same turn.
	ignoredCallsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ignored_calls_total",
			Help:      "Total number of duplicate function calls ignored within a turn",
		},
	)

	// allMetrics is a list of all metrics for registration.
	allMetrics = []prometheus.Collector{
		sessionsActive,
		turnsTotal,
		turnDuration,
		dispatchTotal,
		streamFailuresTotal,
		ignoredCallsTotal,
	}
)

// RecordSessionStart increments the active session gauge.
func RecordSessionStart() {
	sessionsActive.Inc()
}

// RecordSessionEnd decrements the active session gauge.
func RecordSessionEnd() {
	sessionsActive.Dec()
}

// RecordTurn records one handled turn with its duration.
func RecordTurn(interactionType string, durationSeconds float64) {
	turnsTotal.WithLabelValues(interactionType).Inc()
	turnDuration.Observe(durationSeconds)
}

// RecordDispatch records one function dispatch.
func RecordDispatch(function, status string) {
	dispatchTotal.WithLabelValues(function, status).Inc()
}

// RecordStreamFailure records a backend stream failure.
func RecordStreamFailure() {
	streamFailuresTotal.Inc()
}

// RecordIgnoredCall records a duplicate function call ignored within a turn.
func RecordIgnoredCall() {
	ignoredCallsTotal.Inc()
}
