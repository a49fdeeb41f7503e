package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DispatchMetrics records courier dispatch outcomes.
type DispatchMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewDispatchMetrics registers the dispatch metrics on the provided registerer.
func NewDispatchMetrics(reg prometheus.Registerer) *DispatchMetrics {
	if reg == nil {
		return &DispatchMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "courier_dispatch_duration_seconds",
		Help:    "Duration of courier dispatch calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "courier_dispatch_success",
		Help: "Successful courier dispatches.",
	}, []string{"mode"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "courier_dispatch_failure",
		Help: "Failed courier dispatches.",
	}, []string{"mode", "reason"})
	reg.MustRegister(duration, success, failure)
	return &DispatchMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration of a dispatch call.
func (d *DispatchMetrics) ObserveDuration(mode string, duration time.Duration) {
	if d == nil || d.duration == nil {
		return
	}
	d.duration.WithLabelValues(normalizeLabel(mode)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the given mode.
func (d *DispatchMetrics) IncSuccess(mode string) {
	if d == nil || d.success == nil {
		return
	}
	d.success.WithLabelValues(normalizeLabel(mode)).Inc()
}

// IncFailure increments the failure counter for the given mode and reason class.
func (d *DispatchMetrics) IncFailure(mode, reason string) {
	if d == nil || d.failure == nil {
		return
	}
	d.failure.WithLabelValues(normalizeLabel(mode), normalizeLabel(reason)).Inc()
}

// ReconcileMetrics records webhook reconciliation outcomes.
type ReconcileMetrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
}

// Reconciliation outcome labels.
const (
	ReconcileOutcomeApplied    = "applied"
	ReconcileOutcomeDuplicate  = "duplicate"
	ReconcileOutcomeNotFound   = "not_found"
	ReconcileOutcomeRejected   = "rejected"
	ReconcileOutcomeBadPayload = "bad_payload"
	ReconcileOutcomeScanFailed = "scan_failed"
)

// NewReconcileMetrics registers the webhook metrics on the provided registerer.
func NewReconcileMetrics(reg prometheus.Registerer) *ReconcileMetrics {
	if reg == nil {
		return &ReconcileMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "webhook_reconcile_duration_seconds",
		Help:    "Duration of webhook reconciliation in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_reconcile_total",
		Help: "Webhook reconciliations by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(duration, outcomes)
	return &ReconcileMetrics{
		duration: duration,
		outcomes: outcomes,
	}
}

// Observe records one reconciliation with its outcome and duration.
func (r *ReconcileMetrics) Observe(outcome string, duration time.Duration) {
	if r == nil || r.outcomes == nil {
		return
	}
	label := normalizeLabel(outcome)
	r.outcomes.WithLabelValues(label).Inc()
	r.duration.WithLabelValues(label).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
