package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Retention sweep metrics, exposed on /metrics
var (
	SweepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fleettrack_retention_sweeps_total",
		Help: "Number of retention sweeps executed, by mode.",
	}, []string{"mode"})

	SweepEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fleettrack_retention_sweep_events_total",
		Help: "Number of events counted or deleted by retention sweeps, by mode.",
	}, []string{"mode"})

	SweepDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fleettrack_retention_sweep_duration_seconds",
		Help:    "Wall clock duration of retention sweeps, by mode.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"mode"})
)
