package consensus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resolutionCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "psy_consensus_item_resolutions_total",
			Help: "Items resolved, by resolution reason",
		},
		[]string{"reason"},
	)

	escalationRounds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "psy_consensus_escalation_rounds",
			Help:    "Escalation rounds consumed per item",
			Buckets: []float64{0, 1, 2, 3, 4},
		},
	)

	judgeFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "psy_consensus_judge_failures_total",
			Help: "Judge invocations recorded as missing scores",
		},
		[]string{"judge_id"},
	)
)

func observeOutcome(out Outcome) {
	resolutionCounter.WithLabelValues(string(out.Reason)).Inc()
	escalationRounds.Observe(float64(out.RoundsUsed))
}
