package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TransitionMetrics records outcomes of order state transitions.
type TransitionMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewTransitionMetrics registers the transition metrics on the provided registerer.
func NewTransitionMetrics(reg prometheus.Registerer) *TransitionMetrics {
	if reg == nil {
		return &TransitionMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_transition_duration_seconds",
		Help:    "Duration of order state transitions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"target"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transition_success",
		Help: "Committed order state transitions.",
	}, []string{"target"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transition_failure",
		Help: "Rejected order state transitions.",
	}, []string{"target", "code"})
	reg.MustRegister(duration, success, failure)
	return &TransitionMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records how long the transition took.
func (t *TransitionMetrics) ObserveDuration(target string, duration time.Duration) {
	if t == nil || t.duration == nil {
		return
	}
	t.duration.WithLabelValues(normalizeLabel(target)).Observe(duration.Seconds())
}

// IncSuccess increments the committed-transition counter.
func (t *TransitionMetrics) IncSuccess(target string) {
	if t == nil || t.success == nil {
		return
	}
	t.success.WithLabelValues(normalizeLabel(target)).Inc()
}

// IncFailure increments the rejected-transition counter for the error code.
func (t *TransitionMetrics) IncFailure(target, code string) {
	if t == nil || t.failure == nil {
		return
	}
	t.failure.WithLabelValues(normalizeLabel(target), normalizeLabel(code)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
