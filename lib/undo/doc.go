// Package undo defines the accumulator interface the observable map
// forwards inverse actions to, plus a minimal LIFO recorder implementation
// used by tests and the demo CLI.
//
// The map builds, for every successful mutation, a closure that exactly
// reverses it (an insert's inverse is a remove, a clear's inverse re-adds
// the captured prior contents) and hands it to the resolved accumulator.
// Which accumulator receives the action is decided per call: a local
// override assigned to the map wins, otherwise the map's Resolver supplies
// a default. Undo stack semantics (grouping, limits, redo) are entirely the
// accumulator's business.
package undo
