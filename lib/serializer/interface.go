package serializer

// State is the persisted form of an observable map: its entries and whether
// change tracking (undo integration) is enabled. Loading a State rebuilds
// the store directly, without replaying per-entry mutation, notification or
// undo logic.
type State[K comparable, V any] struct {
	Entries      map[K]V `json:"entries"`
	TrackChanges bool    `json:"track_changes"`
}

// ISerializer is the interface for all map state serializers
type ISerializer[K comparable, V any] interface {
	// Serialize serializes a State into a byte array
	// It returns the serialized byte array and an error if any
	Serialize(state State[K, V]) ([]byte, error)
	// Deserialize deserializes a byte array into a State
	// It takes a byte array and a pointer to a State as parameters
	// It returns an error if any
	Deserialize(b []byte, state *State[K, V]) error
}
