package notify

import (
	"sync"

	"github.com/gammazero/deque"
	"github.com/lni/dragonboat/v4/logger"

	"github.com/ValentinKolb/omap/lib/metrics"
)

var log = logger.GetLogger("notify")

// --------------------------------------------------------------------------
// Suppression State
// --------------------------------------------------------------------------

// suppressionState is the three-state machine controlling event delivery
type suppressionState int

const (
	stateNormal          suppressionState = iota // deliver events immediately
	stateSuppressedClean                         // suppressed, nothing changed yet
	stateSuppressedDirty                         // suppressed, at least one change pending
)

// --------------------------------------------------------------------------
// Notifier
// --------------------------------------------------------------------------

// registration pairs an observer with a stable id so it can be removed
// without disturbing the invocation order of the others
type registration[T any] struct {
	id int
	fn T
}

// Notifier delivers structural change events to registered observers and
// implements the suppression/coalescing state machine.
//
// Invariant: whenever suppression is off, the pending queue is empty.
//
// Thread-safety: all methods are safe for concurrent use. Event delivery
// itself happens on the calling goroutine, so the caller (the map) is
// responsible for serializing mutations.
type Notifier[K comparable, V any] struct {
	mu     sync.Mutex
	nextID int

	observers      []registration[Observer[K, V]]
	countObservers []registration[CountObserver]

	state   suppressionState
	pending deque.Deque[Event[K, V]]

	// queuePending controls whether suppressed events are recorded in the
	// pending queue (marshaled mode) or only tracked as a dirty flag
	queuePending bool
}

// NewNotifier creates an empty notifier. queuePending should mirror whether
// the owning map marshals mutations onto a home executor.
func NewNotifier[K comparable, V any](queuePending bool) *Notifier[K, V] {
	return &Notifier[K, V]{
		queuePending: queuePending,
	}
}

// --------------------------------------------------------------------------
// Observer Registration
// --------------------------------------------------------------------------

// Subscribe registers an observer and returns a function that removes it
// again. Observers are invoked in registration order.
func (n *Notifier[K, V]) Subscribe(fn Observer[K, V]) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.observers = append(n.observers, registration[Observer[K, V]]{id: id, fn: fn})

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		for i, reg := range n.observers {
			if reg.id == id {
				n.observers = append(n.observers[:i], n.observers[i+1:]...)
				return
			}
		}
	}
}

// SubscribeCount registers a count observer and returns its removal function.
func (n *Notifier[K, V]) SubscribeCount(fn CountObserver) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.countObservers = append(n.countObservers, registration[CountObserver]{id: id, fn: fn})

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		for i, reg := range n.countObservers {
			if reg.id == id {
				n.countObservers = append(n.countObservers[:i], n.countObservers[i+1:]...)
				return
			}
		}
	}
}

// HasObservers returns whether at least one observer of either kind is
// currently registered.
func (n *Notifier[K, V]) HasObservers() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.observers) > 0 || len(n.countObservers) > 0
}

// --------------------------------------------------------------------------
// Event Delivery
// --------------------------------------------------------------------------

// Notify reports one structural change. count must be the entry count after
// the mutation. Depending on the suppression state the event is delivered
// immediately, recorded as pending, or collapsed into the dirty flag.
func (n *Notifier[K, V]) Notify(event Event[K, V], count int) {
	n.mu.Lock()

	switch n.state {
	case stateSuppressedClean:
		if n.queuePending {
			n.pending.PushBack(event)
		}
		n.state = stateSuppressedDirty
		n.mu.Unlock()
		return

	case stateSuppressedDirty:
		// collapse: only the fact that something changed is kept
		n.pending.Clear()
		n.mu.Unlock()
		return
	}

	// Normal state. Leftover pending records mean the stream observers saw
	// so far no longer matches the store, so the event degrades to a Reset.
	if n.pending.Len() > 0 {
		n.pending.Clear()
		event = Event[K, V]{Action: ActionReset}
		metrics.CoalescedResets.Inc()
	}

	observers, countObservers := n.snapshotLocked()
	n.mu.Unlock()

	n.deliver(event, count, observers, countObservers)
}

// snapshotLocked copies both observer lists so delivery happens outside
// the notifier lock. Callers must hold n.mu.
func (n *Notifier[K, V]) snapshotLocked() ([]registration[Observer[K, V]], []registration[CountObserver]) {
	observers := make([]registration[Observer[K, V]], len(n.observers))
	copy(observers, n.observers)
	countObservers := make([]registration[CountObserver], len(n.countObservers))
	copy(countObservers, n.countObservers)
	return observers, countObservers
}

// deliver invokes the observers, count observers first for Add/Remove/Reset.
// A panicking observer is logged and never aborts the mutation or the
// delivery to the remaining observers.
func (n *Notifier[K, V]) deliver(
	event Event[K, V],
	count int,
	observers []registration[Observer[K, V]],
	countObservers []registration[CountObserver],
) {
	if event.Action != ActionReplace {
		for _, reg := range countObservers {
			n.invokeCount(reg.fn, count)
		}
	}

	for _, reg := range observers {
		n.invoke(reg.fn, event)
	}

	metrics.EventsDelivered.Inc()
}

func (n *Notifier[K, V]) invoke(fn Observer[K, V], event Event[K, V]) {
	defer func() {
		if r := recover(); r != nil {
			metrics.ObserverPanics.Inc()
			log.Errorf("observer panicked on %s: %v", event, r)
		}
	}()
	fn(event)
}

func (n *Notifier[K, V]) invokeCount(fn CountObserver, count int) {
	defer func() {
		if r := recover(); r != nil {
			metrics.ObserverPanics.Inc()
			log.Errorf("count observer panicked: %v", r)
		}
	}()
	fn(count)
}

// --------------------------------------------------------------------------
// Suppression
// --------------------------------------------------------------------------

// Suppressed returns whether event delivery is currently suppressed.
func (n *Notifier[K, V]) Suppressed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state != stateNormal
}

// SetSuppressed toggles suppression. Enabling moves the machine into the
// clean suppressed state. Disabling resets all pending state and, if any
// change happened while suppressed, delivers exactly one coalesced Reset
// carrying the provided count.
func (n *Notifier[K, V]) SetSuppressed(suppressed bool, count int) {
	n.mu.Lock()

	if suppressed {
		if n.state == stateNormal {
			n.state = stateSuppressedClean
		}
		n.mu.Unlock()
		return
	}

	dirty := n.state == stateSuppressedDirty
	n.state = stateNormal
	n.pending.Clear()

	if !dirty {
		n.mu.Unlock()
		return
	}

	observers, countObservers := n.snapshotLocked()
	n.mu.Unlock()

	metrics.CoalescedResets.Inc()
	n.deliver(Event[K, V]{Action: ActionReset}, count, observers, countObservers)
}
