package undo

import (
	"sync"

	"github.com/gammazero/deque"
)

// --------------------------------------------------------------------------
// Recorder (reference IAccumulator implementation)
// --------------------------------------------------------------------------

// record is one accumulated inverse action. Label is empty for plain
// AddUndo records.
type record struct {
	label   string
	inverse Action
}

// recorderImpl is a minimal LIFO accumulator. It exists so tests and the
// demo CLI have a working collaborator; applications bind the map to their
// own undo system instead.
type recorderImpl struct {
	mu      sync.Mutex
	actions deque.Deque[record]
}

// NewRecorder creates an empty LIFO accumulator.
func NewRecorder() IRecorder {
	return &recorderImpl{}
}

// IRecorder extends IAccumulator with the replay side used by tests and
// the demo CLI.
type IRecorder interface {
	IAccumulator

	// Undo pops and executes the most recent inverse action. It returns
	// the label of the executed record and false if nothing was recorded.
	Undo() (label string, ok bool)

	// Len returns the number of accumulated inverse actions.
	Len() (n int)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see undo/interface.go)
// --------------------------------------------------------------------------

func (r *recorderImpl) AddUndo(inverse Action) {
	if inverse == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions.PushBack(record{inverse: inverse})
}

func (r *recorderImpl) TrackSingle(label string, inverse Action) {
	if inverse == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions.PushBack(record{label: label, inverse: inverse})
}

func (r *recorderImpl) Undo() (string, bool) {
	r.mu.Lock()
	if r.actions.Len() == 0 {
		r.mu.Unlock()
		return "", false
	}
	rec := r.actions.PopBack()
	r.mu.Unlock()

	// run outside the lock, the inverse mutates the map and may push a
	// redo action back into this recorder
	rec.inverse()
	return rec.label, true
}

func (r *recorderImpl) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.actions.Len()
}
