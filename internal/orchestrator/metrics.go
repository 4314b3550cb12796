package orchestrator

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	phaseTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dynens",
			Subsystem: "orchestrator",
			Name:      "phase_transitions_total",
			Help:      "Total phase transitions by target phase",
		},
		[]string{"phase"},
	)

	samplerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dynens",
			Subsystem: "orchestrator",
			Name:      "sampler_duration_seconds",
			Help:      "Duration of external sampler passes in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		},
		[]string{"stage"},
	)

	deadPointsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dynens",
			Subsystem: "orchestrator",
			Name:      "dead_points_total",
			Help:      "Total dead points across combined runs",
		},
	)

	warningsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dynens",
			Subsystem: "orchestrator",
			Name:      "warnings_total",
			Help:      "Total non-fatal warnings emitted during runs",
		},
	)
)

func init() {
	prometheus.MustRegister(phaseTransitionsTotal, samplerDuration, deadPointsTotal, warningsTotal)
}
