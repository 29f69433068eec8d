// Package metrics documents the Prometheus metrics exported by the gateway.
// Metrics are defined next to the code that records them (client,
// pagination, gateway, ratelimit) and registered via promauto.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the Prometheus registerer used by every gateway package.
var Registry = prometheus.DefaultRegisterer

// Names lists every metric the gateway registers.
var Names = []string{
	"wbgw_upstream_requests_total",
	"wbgw_upstream_request_duration_seconds",
	"wbgw_upstream_errors_total",
	"wbgw_pages_fetched_total",
	"wbgw_aggregations_total",
	"wbgw_aggregation_pages",
	"wbgw_missing_page_count_total",
	"wbgw_operations_total",
	"wbgw_operation_duration_seconds",
	"wbgw_rate_gate_waits_total",
	"wbgw_rate_gate_fail_open_total",
	"wbgw_rate_gate_window_count",
}

// Handler returns the scrape handler for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Metrics Documentation
//
// Upstream Metrics (pkg/client):
//   - wbgw_upstream_requests_total{status} (Counter): upstream requests by HTTP status
//   - wbgw_upstream_request_duration_seconds (Histogram): upstream request latency
//   - wbgw_upstream_errors_total{class} (Counter): errors by class (client, server, rate_limit, network)
//
// Pagination Metrics (pkg/pagination):
//   - wbgw_pages_fetched_total{operation} (Counter): pages fetched
//   - wbgw_aggregations_total{operation, outcome} (Counter): aggregations by outcome
//   - wbgw_aggregation_pages (Histogram): pages per successful aggregation
//   - wbgw_missing_page_count_total{operation} (Counter): metadata without a usable pages field
//
// Operation Metrics (pkg/gateway):
//   - wbgw_operations_total{operation, code} (Counter): operations by envelope code (OK or error kind)
//   - wbgw_operation_duration_seconds{operation} (Histogram): end-to-end latency
//
// Rate Gate Metrics (pkg/ratelimit):
//   - wbgw_rate_gate_waits_total (Counter): waits for the next window
//   - wbgw_rate_gate_fail_open_total (Counter): admissions while Redis was unavailable
//   - wbgw_rate_gate_window_count (Gauge): count in the latest window
//
// Example Prometheus Queries:
//
//   # Error envelope rate
//   sum(rate(wbgw_operations_total{code!="OK"}[5m])) by (code)
//
//   # Average pages per aggregation
//   rate(wbgw_aggregation_pages_sum[5m]) / rate(wbgw_aggregation_pages_count[5m])
//
//   # Schema drift signal
//   increase(wbgw_missing_page_count_total[1h]) > 0
//
//   # P95 upstream latency
//   histogram_quantile(0.95, rate(wbgw_upstream_request_duration_seconds_bucket[5m]))
