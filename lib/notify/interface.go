package notify

import "fmt"

// --------------------------------------------------------------------------
// Action Type
// --------------------------------------------------------------------------

// Action describes the structural change reported by an Event
type Action int

const (
	ActionAdd     Action = iota // an entry was inserted
	ActionRemove                // an entry was removed
	ActionReplace               // the value of an existing key was overwritten
	ActionReset                 // the whole collection changed, re-read it
)

func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "Add"
	case ActionRemove:
		return "Remove"
	case ActionReplace:
		return "Replace"
	case ActionReset:
		return "Reset"
	default:
		return "Unknown"
	}
}

// --------------------------------------------------------------------------
// Event Type
// --------------------------------------------------------------------------

// Entry is the key-value pair carried by change events
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Event is one structural change of the observed collection.
//
//   - ActionAdd:     NewItem is set
//   - ActionRemove:  OldItem is set
//   - ActionReplace: NewItem and OldItem are set
//   - ActionReset:   neither is set, observers must re-read the collection
type Event[K comparable, V any] struct {
	Action  Action
	NewItem *Entry[K, V]
	OldItem *Entry[K, V]
}

func (e Event[K, V]) String() string {
	switch e.Action {
	case ActionAdd:
		return fmt.Sprintf("Event{Add, %v=%v}", e.NewItem.Key, e.NewItem.Value)
	case ActionRemove:
		return fmt.Sprintf("Event{Remove, %v=%v}", e.OldItem.Key, e.OldItem.Value)
	case ActionReplace:
		return fmt.Sprintf("Event{Replace, %v: %v -> %v}", e.NewItem.Key, e.OldItem.Value, e.NewItem.Value)
	case ActionReset:
		return "Event{Reset}"
	default:
		return "Event{Unknown}"
	}
}

// --------------------------------------------------------------------------
// Observer Types
// --------------------------------------------------------------------------

// Observer receives structural change events. Observers are invoked
// synchronously, in registration order, on the goroutine performing the
// mutation.
type Observer[K comparable, V any] func(event Event[K, V])

// CountObserver receives the new entry count before any Add, Remove or
// Reset event becomes observable.
type CountObserver func(count int)
