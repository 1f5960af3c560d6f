package intel

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	classifierCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "feed_classifier_cache_hits_total",
		Help: "Classification served from the memoization cache.",
	})

	classifierCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "feed_classifier_cache_misses_total",
		Help: "Classifications computed from scratch.",
	})
)

func init() {
	prometheus.MustRegister(classifierCacheHits, classifierCacheMisses)
}
