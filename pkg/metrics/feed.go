package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of a full BuildPage call
	FeedPageLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "feed_page_latency_seconds",
		Help:    "Latency of building one personalized feed page",
		Buckets: prometheus.DefBuckets,
	})

	// Total number of feed pages served
	FeedPagesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "feed_pages_total",
		Help: "Total number of feed pages built",
	})

	// Persistence writes that failed (local or remote tier)
	StorageWriteFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_storage_write_failures_total",
		Help: "Fire-and-forget persistence writes that failed, by tier",
	}, []string{"tier"})
)

func Init() {
	prometheus.MustRegister(
		FeedPageLatency,
		FeedPagesTotal,
		StorageWriteFailures,
	)
}
