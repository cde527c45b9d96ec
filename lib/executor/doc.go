// Package executor provides the "home context" abstraction used to marshal
// map mutations onto one designated goroutine.
//
// UI frameworks require collection changes to happen on the thread that owns
// the view. This package generalizes that requirement to a plain
// single-threaded executor with three operations:
//
//   - IsHomeContext: is the caller already on the designated goroutine?
//   - PostAndWait: run an action on the designated goroutine, blocking the
//     caller until it (and all previously queued work) completed
//   - DrainPending: wait until the designated goroutine has worked off its
//     current queue
//
// The only implementation, the loop executor, owns one goroutine and a FIFO
// task channel. Because the channel is consumed by a single goroutine, any
// two posted actions execute in a strict total order and never interleave.
//
// Panics inside posted actions are recovered and logged so a misbehaving
// action can never kill the home goroutine or leave a poster blocked forever.
package executor
