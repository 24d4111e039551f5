package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics holds all Prometheus metrics of the belief engine.
type PrometheusMetrics struct {
	// Evaluation metrics
	EvaluationsTotal *prometheus.CounterVec
	LatencyHistogram *prometheus.HistogramVec

	// Query metrics
	QueriesTotal *prometheus.CounterVec

	// Cache metrics
	CacheStoresTotal        prometheus.Counter
	CacheInvalidationsTotal prometheus.Counter
	CacheNotReadyTotal      prometheus.Counter

	// Numeric degradation metrics
	WeakMassTotal prometheus.Counter
	DiracTotal    prometheus.Counter

	// Ranking metrics
	RankingsTotal       *prometheus.CounterVec
	DifferingRanksTotal prometheus.Counter
}

// NewPrometheusMetrics creates a new Prometheus metrics instance.
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		EvaluationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "belief_evaluations_total",
				Help: "Total number of evaluations by aggregation rule",
			},
			[]string{"rule", "status"},
		),

		LatencyHistogram: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "belief_evaluation_latency_seconds",
				Help:    "Evaluation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"rule"},
		),

		QueriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "belief_queries_total",
				Help: "Total number of belief-mass queries by kind",
			},
			[]string{"kind", "status"},
		),

		CacheStoresTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "belief_cache_stores_total",
				Help: "Total number of evaluation results stored in the cache",
			},
		),

		CacheInvalidationsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "belief_cache_invalidations_total",
				Help: "Total number of clear-all cache invalidation sweeps",
			},
		),

		CacheNotReadyTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "belief_cache_not_ready_total",
				Help: "Total number of queries rejected for missing a valid cache entry",
			},
		),

		WeakMassTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "belief_weak_mass_warnings_total",
				Help: "Total number of weak-mass-distribution warnings",
			},
		),

		DiracTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "belief_dirac_mass_total",
				Help: "Total number of point-mass (Dirac) classifications",
			},
		),

		RankingsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "belief_rankings_total",
				Help: "Total number of ranking passes by discipline",
			},
			[]string{"mode", "status"},
		),

		DifferingRanksTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "belief_differing_ranks_total",
				Help: "Total number of gamma/omega ordering disagreements",
			},
		),
	}
}

// RecordEvaluation records an evaluation with its latency.
func (m *PrometheusMetrics) RecordEvaluation(rule, status string, duration time.Duration) {
	m.EvaluationsTotal.WithLabelValues(rule, status).Inc()
	m.LatencyHistogram.WithLabelValues(rule).Observe(duration.Seconds())
}

// RecordQuery records a belief-mass query.
func (m *PrometheusMetrics) RecordQuery(kind, status string) {
	m.QueriesTotal.WithLabelValues(kind, status).Inc()
}

// RecordRanking records a ranking pass.
func (m *PrometheusMetrics) RecordRanking(mode, status string) {
	m.RankingsTotal.WithLabelValues(mode, status).Inc()
}
