// Package metrics defines the process-wide instrumentation counters of the
// library. The counters are exported in the VictoriaMetrics text format via
// metrics.WritePrometheus (see the cmd package).
package metrics

import "github.com/VictoriaMetrics/metrics"

var (
	// Mutations counts all successful mutating map operations
	Mutations = metrics.NewCounter("omap_mutations_total")

	// EventsDelivered counts change events delivered to observers
	EventsDelivered = metrics.NewCounter("omap_events_delivered_total")

	// CoalescedResets counts Reset events that replaced pending notifications
	CoalescedResets = metrics.NewCounter("omap_coalesced_resets_total")

	// ObserverPanics counts recovered panics raised by registered observers
	ObserverPanics = metrics.NewCounter("omap_observer_panics_total")

	// ExecutorPosts counts actions marshaled onto a home goroutine
	ExecutorPosts = metrics.NewCounter("omap_executor_posts_total")

	// ExecutorPanics counts recovered panics inside posted actions
	ExecutorPanics = metrics.NewCounter("omap_executor_panics_total")

	// UndoActions counts inverse actions forwarded to an accumulator
	UndoActions = metrics.NewCounter("omap_undo_actions_total")
)
