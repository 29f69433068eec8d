package pagination

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pagesFetchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wbgw_pages_fetched_total",
		Help: "Total upstream pages fetched by operation",
	}, []string{"operation"})

	aggregationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wbgw_aggregations_total",
		Help: "Total aggregations by operation and outcome",
	}, []string{"operation", "outcome"})

	aggregationPages = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wbgw_aggregation_pages",
		Help:    "Number of pages fetched per successful aggregation",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
	})

	missingPageCountTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wbgw_missing_page_count_total",
		Help: "Aggregations where the metadata had no usable pages field",
	}, []string{"operation"})
)
