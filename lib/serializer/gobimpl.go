package serializer

import (
	"bytes"
	"encoding/gob"
)

// NewGOBSerializer creates a new serializer using Go's binary gob format
func NewGOBSerializer[K comparable, V any]() ISerializer[K, V] {
	return &gobSerializerImpl[K, V]{}
}

// gobSerializerImpl implements the ISerializer interface using gob encoding
type gobSerializerImpl[K comparable, V any] struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (g gobSerializerImpl[K, V]) Serialize(state State[K, V]) ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(state); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g gobSerializerImpl[K, V]) Deserialize(b []byte, state *State[K, V]) error {
	buf := bytes.NewBuffer(b)
	dec := gob.NewDecoder(buf)
	return dec.Decode(state)
}
