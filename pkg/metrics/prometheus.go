package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	decisions     *prometheus.CounterVec
	gateFailures  *prometheus.CounterVec
	backtestSteps *prometheus.CounterVec
	stepErrors    *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		decisions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signaldesk_decisions_total",
				Help: "Decisions emitted, by final signal",
			},
			[]string{"symbol", "signal"},
		),
		gateFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signaldesk_gate_failures_total",
				Help: "Decisions forced to HOLD, by failing gate",
			},
			[]string{"symbol", "gate"},
		),
		backtestSteps: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signaldesk_backtest_steps_total",
				Help: "Walk-forward steps evaluated, by resulting signal",
			},
			[]string{"symbol", "signal"},
		),
		stepErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signaldesk_backtest_step_errors_total",
				Help: "Walk-forward steps skipped after an internal failure",
			},
			[]string{"symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signaldesk_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "signaldesk_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordDecision records one emitted decision.
func (r *Recorder) RecordDecision(symbol, signal string) {
	r.decisions.WithLabelValues(symbol, signal).Inc()
}

// RecordGateFailure records a decision blocked by a gate.
func (r *Recorder) RecordGateFailure(symbol, gate string) {
	r.gateFailures.WithLabelValues(symbol, gate).Inc()
}

// RecordBacktestStep records one evaluated walk-forward step.
func (r *Recorder) RecordBacktestStep(symbol, signal string) {
	r.backtestSteps.WithLabelValues(symbol, signal).Inc()
}

// RecordBacktestStepError records a skipped walk-forward step.
func (r *Recorder) RecordBacktestStepError(symbol string) {
	r.stepErrors.WithLabelValues(symbol).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
