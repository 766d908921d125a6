package list

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are registered on the default registry by the package that owns
// the state they describe.
var (
	metricFetchesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lazylist_fetches_started_total",
		Help: "Item fetches handed to the executor.",
	})

	metricFetchesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lazylist_fetches_completed_total",
		Help: "Item fetches that completed and were applied.",
	})

	metricFetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lazylist_fetch_failures_total",
		Help: "Item fetches that returned an error.",
	})

	metricStaleCompletions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lazylist_stale_completions_total",
		Help: "Completions discarded because their generation was reset away.",
	})

	metricResets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lazylist_resets_total",
		Help: "Collection resets.",
	})

	metricCollectionSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lazylist_collection_size",
		Help: "Items currently in the collection.",
	})
)
