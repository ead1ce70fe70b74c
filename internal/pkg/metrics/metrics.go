// Package metrics provides Prometheus collectors for the dispatch core.
// Collectors are created unregistered; the composition root registers them
// on the default registry and hands them to the components that record them.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewAssignmentPassesTotal returns a counter for completed assignment passes.
func NewAssignmentPassesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_assignment_passes_total",
		Help: "Total number of completed driver assignment passes",
	})
}

// NewAssignmentsTotal returns a counter for deliveries assigned to drivers.
func NewAssignmentsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_assignments_total",
		Help: "Total number of deliveries assigned to drivers",
	})
}

// NewAssignmentsUnmatchedTotal returns a counter for deliveries left pending
// because no driver was available.
func NewAssignmentsUnmatchedTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_assignments_unmatched_total",
		Help: "Total number of pending deliveries for which no driver was available",
	})
}

// NewVersionConflictsTotal returns a counter for optimistic concurrency
// collisions surfaced to callers.
func NewVersionConflictsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_version_conflicts_total",
		Help: "Total number of delivery updates rejected due to version conflicts",
	})
}

// NewEventsDroppedTotal returns a counter for domain events dropped because
// the publish buffer was full.
func NewEventsDroppedTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_events_dropped_total",
		Help: "Total number of domain events dropped due to a full publish buffer",
	})
}

// NewReconciliationRepairsTotal returns a counter for driver records repaired
// by the reconciliation pass.
func NewReconciliationRepairsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_reconciliation_repairs_total",
		Help: "Total number of driver records repaired by the reconciliation pass",
	})
}
