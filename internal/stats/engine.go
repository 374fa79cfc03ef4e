// Package stats implements the aggregation engine behind the dashboard: it
// turns a resolved monthly dataset into the derived tables the display layer
// renders (headline KPIs, rush-hour comparison, weekday breakdown, delay
// histogram, train-type comparison).
//
// Every aggregate runs over rows with a measured delay (delay_in_min IS NOT
// NULL) and uses that filtered count as the denominator for percentages.
// Results are memoized per (period, widget, filter set); snapshots are
// immutable, so cached results never expire.
package stats

import (
	"bahnboard.morphos.dev/internal/metrics"
)

// Engine computes derived tables from resolved datasets. One engine is shared
// across all requests; it is safe for concurrent use.
type Engine struct {
	cache   *resultCache
	metrics *metrics.Metrics
}

// NewEngine creates an engine. metrics may be nil.
func NewEngine(m *metrics.Metrics) *Engine {
	return &Engine{
		cache:   newResultCache(),
		metrics: m,
	}
}
