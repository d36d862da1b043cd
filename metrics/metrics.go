// Package metrics instruments the sampling engine with prometheus
// counters and a histogram, grounded in the teacher's
// internal/metrics/prom.go. Unlike the teacher, which registers into
// prometheus's global DefaultRegisterer, each Recorder registers its
// collectors on its own Registry: a library should not reach into global
// state a caller did not ask for.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder groups the collectors for one sampling run (or one
// long-lived engine instance) and the registry they're bound to.
type Recorder struct {
	Registry *prometheus.Registry

	SamplesTotal       *prometheus.CounterVec
	DeclinesTotal      *prometheus.CounterVec
	ParseFailuresTotal *prometheus.CounterVec
	QueriesTotal       *prometheus.CounterVec
	ConfidenceScore    *prometheus.HistogramVec
	ArchetypeTotal     *prometheus.CounterVec
}

// NewRecorder builds a Recorder with its own registry and registers all
// collectors on it.
func NewRecorder() *Recorder {
	r := &Recorder{
		Registry: prometheus.NewRegistry(),
		SamplesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "winnow_samples_total",
				Help: "Total number of successfully parsed samples, by question id.",
			},
			[]string{"question_id"},
		),
		DeclinesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "winnow_declines_total",
				Help: "Total number of decline responses, by question id.",
			},
			[]string{"question_id"},
		),
		ParseFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "winnow_parse_failures_total",
				Help: "Total number of unparseable responses, by question id.",
			},
			[]string{"question_id"},
		),
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "winnow_queries_total",
				Help: "Total number of oracle queries issued, by question id.",
			},
			[]string{"question_id"},
		),
		ConfidenceScore: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "winnow_final_confidence",
				Help:    "Distribution of final (decline-penalised) confidence at finalisation.",
				Buckets: prometheus.LinearBuckets(0, 0.1, 11),
			},
			[]string{"question_id"},
		),
		ArchetypeTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "winnow_archetype_total",
				Help: "Total number of finalised questions, by archetype.",
			},
			[]string{"archetype"},
		),
	}
	r.Registry.MustRegister(
		r.SamplesTotal,
		r.DeclinesTotal,
		r.ParseFailuresTotal,
		r.QueriesTotal,
		r.ConfidenceScore,
		r.ArchetypeTotal,
	)
	return r
}

// RecordOutcome records one oracle response outcome against questionID.
func (r *Recorder) RecordOutcome(questionID string, outcomeLabel string) {
	r.QueriesTotal.WithLabelValues(questionID).Inc()
	switch outcomeLabel {
	case "value":
		r.SamplesTotal.WithLabelValues(questionID).Inc()
	case "decline":
		r.DeclinesTotal.WithLabelValues(questionID).Inc()
	case "failure":
		r.ParseFailuresTotal.WithLabelValues(questionID).Inc()
	}
}

// RecordFinal records the final confidence and archetype of a finalised
// question.
func (r *Recorder) RecordFinal(questionID string, confidence float64, archetype string) {
	r.ConfidenceScore.WithLabelValues(questionID).Observe(confidence)
	r.ArchetypeTotal.WithLabelValues(archetype).Inc()
}
