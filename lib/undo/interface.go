package undo

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Action is a closure that exactly reverses one prior mutation when executed.
type Action func()

// IAccumulator is the external collaborator that collects inverse actions
// for later batch undo/redo. The observable map never owns an undo stack
// itself, it only forwards inverse actions to an accumulator.
type IAccumulator interface {
	// AddUndo records one inverse action.
	AddUndo(inverse Action)

	// TrackSingle records one inverse action wrapped in its own
	// single-action undo scope with the given label.
	TrackSingle(label string, inverse Action)
}

// Resolver returns the accumulator to use for a mutation, or nil if none is
// currently available. It is evaluated once per mutating call, at the call
// boundary, so a "current accumulator" policy stays a caller decision
// instead of an ambient global read deep inside the map.
type Resolver func() IAccumulator
