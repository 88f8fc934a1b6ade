package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Generation outcomes
const (
	OutcomeSuccess    = "success"
	OutcomeModelError = "model_error"
	OutcomeParseError = "parse_error"
)

// Cache lookup results
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	generations        *prometheus.CounterVec
	generationDuration prometheus.Histogram
	questionTypes      *prometheus.CounterVec
	completionCache    *prometheus.CounterVec
}

// New creates the collectors and registers them with r.
func New(r prometheus.Registerer) *Metrics {
	m := &Metrics{
		generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizgen_generations_total",
				Help: "Quiz generations by outcome",
			},
			[]string{"outcome"},
		),
		generationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quizgen_generation_duration_seconds",
			Help:    "Time spent waiting on the model, including parsing",
			Buckets: prometheus.DefBuckets,
		}),
		questionTypes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizgen_question_types_total",
				Help: "Question types selected for prompts",
			},
			[]string{"type"},
		),
		completionCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizgen_completion_cache_total",
				Help: "Completion cache lookups by result",
			},
			[]string{"result"},
		),
	}
	r.MustRegister(m.generations, m.generationDuration, m.questionTypes, m.completionCache)
	return m
}

// ObserveGeneration records one finished generation.
func (m *Metrics) ObserveGeneration(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(outcome).Inc()
	m.generationDuration.Observe(d.Seconds())
}

// ObserveQuestionType records the type chosen for a prompt.
func (m *Metrics) ObserveQuestionType(questionType string) {
	if m == nil {
		return
	}
	m.questionTypes.WithLabelValues(questionType).Inc()
}

// ObserveCache records a completion cache lookup.
func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.completionCache.WithLabelValues(result).Inc()
}
