// Package omap provides a thread-safe, mutation-observable associative map
// for binding to UI presentation layers.
//
// Every structural change (insert, remove, replace, bulk reset) is reported
// through registered observers in a form compatible with virtualized
// list/grid controls, and simultaneously recorded as an inverse action
// forwarded to an external undo/redo accumulator (see the undo package).
//
// The package focuses on:
//   - One exclusive lock as the single unit of truth for the store; every
//     operation acquires it only for its own duration
//   - A suppression mode that coalesces any number of batched changes into
//     one Reset notification (see the notify package)
//   - Marshaling of mutations onto a designated home goroutine so UI
//     consumers observe all changes from one thread (see the executor
//     package)
//   - Undo integration that never stores undo state itself but emits
//     inverse closures per mutation
//
// Key Components:
//
//   - Map: The single concrete map type. All capabilities live here.
//
//   - ReadOnly / Untyped: Composable adapter shims exposing only the
//     capability subset a consumer needs, instead of one type implementing
//     every contract at once. The untyped view serves legacy object-typed
//     consumers and converts type mismatches into InvalidCast errors.
//
//   - Registry: A process-wide name-to-map registry so binding code can
//     resolve collections by name.
//
//   - Save/Load: Persistence of the {entries, trackChanges} state through
//     the serializer package. Loading rebuilds the store directly and
//     raises a single Reset.
//
// Re-entrancy:
//
//	Observers and accumulators are invoked while the mutating call still
//	holds the map's lock. They must record what they need and return;
//	calling back into the map synchronously deadlocks. Inverse actions
//	are safe to execute later from any goroutine.
//
// Thread Safety:
//
//	All exported methods are safe for concurrent use. Two concurrent
//	mutations are observed by all observers in a strict total order
//	matching lock-acquisition order; events of different mutations never
//	interleave.
package omap
