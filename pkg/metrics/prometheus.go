package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	evaluations  *prometheus.CounterVec
	degraded     prometheus.Counter
	errorsTotal  *prometheus.CounterVec
	alertsFired  *prometheus.CounterVec
	modelUp      *prometheus.GaugeVec
	modelProb    *prometheus.GaugeVec
	evalDuration prometheus.Histogram
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		evaluations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nochurn_evaluations_total",
				Help: "Total churn risk evaluations by resulting tier",
			},
			[]string{"tier"},
		),
		degraded: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "nochurn_degraded_evaluations_total",
				Help: "Evaluations that rested on fewer than all primary predictors",
			},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nochurn_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		alertsFired: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nochurn_alerts_fired_total",
				Help: "Early-warning alert flags raised",
			},
			[]string{"rule", "severity"},
		),
		modelUp: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "nochurn_model_available",
				Help: "Whether a predictor's artifact is loaded (1) or unavailable (0)",
			},
			[]string{"model"},
		),
		modelProb: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "nochurn_model_last_probability",
				Help: "Last churn probability produced by a predictor",
			},
			[]string{"model"},
		),
		evalDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "nochurn_evaluation_duration_seconds",
				Help:    "Duration of a full risk evaluation",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// RecordEvaluation records a completed evaluation with its tier.
func (r *Recorder) RecordEvaluation(tier string, degraded bool) {
	r.evaluations.WithLabelValues(tier).Inc()
	if degraded {
		r.degraded.Inc()
	}
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordAlert records a fired alert flag.
func (r *Recorder) RecordAlert(rule, severity string) {
	r.alertsFired.WithLabelValues(rule, severity).Inc()
}

// RecordModelAvailability records predictor artifact availability.
func (r *Recorder) RecordModelAvailability(model string, available bool) {
	v := 0.0
	if available {
		v = 1.0
	}
	r.modelUp.WithLabelValues(model).Set(v)
}

// RecordModelProbability records the last probability a predictor produced.
func (r *Recorder) RecordModelProbability(model string, p float64) {
	r.modelProb.WithLabelValues(model).Set(p)
}

// RecordLatency records evaluation latency in seconds.
func (r *Recorder) RecordLatency(seconds float64) {
	r.evalDuration.Observe(seconds)
}
