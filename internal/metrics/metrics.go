package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Evaluation outcomes
const (
	OutcomeComputed     = "computed"
	OutcomeInsufficient = "insufficient_data"
	OutcomeDegenerate   = "degenerate_input"
)

// Collector exposes Prometheus metrics for accuracy evaluation and ranking runs.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry          *prometheus.Registry
	evaluations       *prometheus.CounterVec
	rankingDuration   *prometheus.HistogramVec
	rankingRuns       *prometheus.CounterVec
	snapshotFailures  prometheus.Counter
	lastOverallScores *prometheus.GaugeVec
}

// NewCollector constructs a collector registered on its own registry
func NewCollector() (*Collector, error) {
	registry := prometheus.NewRegistry()

	evaluations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "accuracy",
		Subsystem: "engine",
		Name:      "evaluations_total",
		Help:      "Accuracy evaluations by outcome.",
	}, []string{"outcome"})

	rankingDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "accuracy",
		Subsystem: "ranking",
		Name:      "duration_seconds",
		Help:      "Latency distribution of ranking runs.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"period"})

	rankingRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "accuracy",
		Subsystem: "ranking",
		Name:      "runs_total",
		Help:      "Ranking runs by period and status.",
	}, []string{"period", "status"})

	snapshotFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "accuracy",
		Subsystem: "ranking",
		Name:      "snapshot_store_failures_total",
		Help:      "Ranking snapshots that could not be stored.",
	})

	lastOverallScores := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "accuracy",
		Subsystem: "ranking",
		Name:      "overall_accuracy",
		Help:      "Overall accuracy of each agent in the last ranking run.",
	}, []string{"period", "agent"})

	for _, c := range []prometheus.Collector{
		evaluations,
		rankingDuration,
		rankingRuns,
		snapshotFailures,
		lastOverallScores,
		collectors.NewGoCollector(),
	} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return &Collector{
		registry:          registry,
		evaluations:       evaluations,
		rankingDuration:   rankingDuration,
		rankingRuns:       rankingRuns,
		snapshotFailures:  snapshotFailures,
		lastOverallScores: lastOverallScores,
	}, nil
}

// Handler returns an HTTP handler for exposing Prometheus metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveEvaluation counts one evaluation outcome
func (c *Collector) ObserveEvaluation(outcome string) {
	if c == nil {
		return
	}
	c.evaluations.WithLabelValues(outcome).Inc()
}

// ObserveRanking records a finished ranking run
func (c *Collector) ObserveRanking(period string, duration time.Duration, err error) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.rankingRuns.WithLabelValues(period, status).Inc()
	c.rankingDuration.WithLabelValues(period).Observe(duration.Seconds())
}

// SetOverallAccuracy publishes an agent's score from the last run
func (c *Collector) SetOverallAccuracy(period, agentID string, accuracy float64) {
	if c == nil {
		return
	}
	c.lastOverallScores.WithLabelValues(period, agentID).Set(accuracy)
}

// IncSnapshotFailure counts a ranking snapshot that could not be stored
func (c *Collector) IncSnapshotFailure() {
	if c == nil {
		return
	}
	c.snapshotFailures.Inc()
}
