package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Global collectors, registered on the default registry by promauto.

var (
	// Nodes tracks the node count of each index, internal nodes included.
	Nodes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kektortree_nodes_total",
			Help: "Total number of nodes per index",
		},
		[]string{"index_name"},
	)

	// Leaves tracks the leaf count of each index.
	Leaves = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kektortree_leaves_total",
			Help: "Total number of leaves per index",
		},
		[]string{"index_name"},
	)

	// Depth tracks the deepest level reached by each index.
	Depth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kektortree_depth",
			Help: "Maximum depth reached per index",
		},
		[]string{"index_name"},
	)

	// Splits counts node splits. phase is "refine" or "grade".
	Splits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kektortree_splits_total",
			Help: "Total number of node splits",
		},
		[]string{"index_name", "phase"},
	)

	// QueryDuration measures read operations.
	// Buckets go from sub-microsecond point location to large range scans.
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kektortree_query_duration_seconds",
			Help:    "Duration of index queries in seconds",
			Buckets: []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		},
		[]string{"index_name", "op"},
	)
)

// Forget drops every series of an index.
func Forget(index string) {
	labels := prometheus.Labels{"index_name": index}
	Nodes.DeletePartialMatch(labels)
	Leaves.DeletePartialMatch(labels)
	Depth.DeletePartialMatch(labels)
	Splits.DeletePartialMatch(labels)
	QueryDuration.DeletePartialMatch(labels)
}
