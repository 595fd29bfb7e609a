package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search session Prometheus metrics.
var (
	SearchSubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "segscope",
			Name:      "search_submissions_total",
			Help:      "Searches submitted from the UI",
		},
		[]string{"action"},
	)

	SearchOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "segscope",
			Name:      "search_outcomes_total",
			Help:      "Completed searches by outcome",
		},
		[]string{"action", "outcome"}, // "ok" / "error"
	)

	SearchRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "segscope",
			Name:      "search_rejected_total",
			Help:      "Submissions rejected because a search was still pending",
		},
	)

	SearchLoadingTimeoutsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "segscope",
			Name:      "search_loading_timeouts_total",
			Help:      "Searches that outlived the loading indicator",
		},
	)

	SearchesInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "segscope",
			Name:      "searches_in_flight",
			Help:      "Searches awaiting a backend reply",
		},
	)

	SearchResultsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "segscope",
			Name:      "search_results_returned",
			Help:      "Number of segments per successful search",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers the search session metrics. Must be called once from main.
func RegisterSearchMetrics(reg prometheus.Registerer) {
	if searchMetricsRegistered {
		return
	}
	reg.MustRegister(
		SearchSubmissionsTotal,
		SearchOutcomesTotal,
		SearchRejectedTotal,
		SearchLoadingTimeoutsTotal,
		SearchesInFlight,
		SearchResultsReturned,
	)
	searchMetricsRegistered = true
}
