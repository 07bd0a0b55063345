package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dispatchCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jury_judge_dispatch_total",
			Help: "Judge calls by outcome (ok, error, timeout)",
		},
		[]string{"judge", "outcome"},
	)

	dispatchLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jury_judge_dispatch_seconds",
			Help:    "Latency of a single judge call",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60, 120},
		},
		[]string{"judge"},
	)

	coverageCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jury_aggregated_scores_total",
			Help: "Aggregated scores by criterion and panel coverage",
		},
		[]string{"criterion", "coverage"},
	)

	tieCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jury_aggregated_ties_total",
			Help: "Aggregations where the vote was tied and the default score was used",
		},
		[]string{"criterion"},
	)

	failureCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jury_judge_failures_total",
			Help: "Judge outcomes that produced no verdict, by failure kind",
		},
		[]string{"judge", "kind"},
	)
)

// Observer records jury activity in Prometheus. The zero value is ready to use.
type Observer struct{}

func NewObserver() *Observer {
	return &Observer{}
}

// ObserveDispatch records one judge call.
func (o *Observer) ObserveDispatch(judgeKey string, duration time.Duration, err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		outcome = "timeout"
	case err != nil:
		outcome = "error"
	}
	dispatchCounter.WithLabelValues(judgeKey, outcome).Inc()
	dispatchLatency.WithLabelValues(judgeKey).Observe(duration.Seconds())
}

// ObserveScore records the coverage of one aggregated score.
func (o *Observer) ObserveScore(score models.AggregatedScore) {
	coverageCounter.WithLabelValues(score.Criterion, string(score.Coverage)).Inc()
	if score.Tied {
		tieCounter.WithLabelValues(score.Criterion).Inc()
	}
}

// ObserveFailure records a judge outcome that yielded no verdict.
func (o *Observer) ObserveFailure(failure models.Failure) {
	failureCounter.WithLabelValues(failure.JudgeKey, string(failure.Kind)).Inc()
}
