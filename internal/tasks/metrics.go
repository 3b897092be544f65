package tasks

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engine's Prometheus collectors
type Metrics struct {
	Commands        *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	Rollups         *prometheus.CounterVec
	EmitFailures    prometheus.Counter
}

// NewMetrics registers the engine collectors with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Commands: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "teamboard_engine_commands_total",
			Help: "Engine commands by name and outcome kind",
		}, []string{"command", "outcome"}),

		CommandDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "teamboard_engine_command_duration_seconds",
			Help:    "Engine command latency in seconds, including the transaction",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"command"}),

		Rollups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "teamboard_super_task_rollups_total",
			Help: "Super task status recomputations by resulting status",
		}, []string{"status"}),

		EmitFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "teamboard_emit_failures_total",
			Help: "Event batches the emitter failed to deliver",
		}),
	}
}
