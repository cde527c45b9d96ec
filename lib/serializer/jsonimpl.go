package serializer

import (
	"encoding/json"
)

// NewJSONSerializer creates a new serializer using json encoding.
// The key type must be usable as a json object key (string or integer
// kinds, or a type implementing encoding.TextMarshaler).
func NewJSONSerializer[K comparable, V any]() ISerializer[K, V] {
	return &jsonSerializerImpl[K, V]{}
}

// jsonSerializerImpl implements the ISerializer interface using json encoding
type jsonSerializerImpl[K comparable, V any] struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (j jsonSerializerImpl[K, V]) Serialize(state State[K, V]) ([]byte, error) {
	return json.Marshal(state)
}

func (j jsonSerializerImpl[K, V]) Deserialize(b []byte, state *State[K, V]) error {
	return json.Unmarshal(b, state)
}
