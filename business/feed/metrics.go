package feed

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	feedExplorePicksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "feed_explore_picks_total",
		Help: "Items placed on pages through seeded exploration rather than rank.",
	})

	feedCandidatesRanked = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "feed_candidates_ranked_total",
		Help: "Candidate products scored by the ranker.",
	})
)

func init() {
	prometheus.MustRegister(feedExplorePicksTotal, feedCandidatesRanked)
}
