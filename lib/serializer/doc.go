// Package serializer provides persistence codecs for the observable map.
// It defines a common interface and multiple implementations for
// serializing and deserializing the map's persisted state
// (entries + change-tracking flag).
//
// The package focuses on:
//   - Providing a consistent interface for different serialization formats
//   - Keeping the persisted layout independent of the map's runtime wiring
//     (observers, executor, accumulator are never persisted)
//
// Key Components:
//
//   - ISerializer: Core interface that all serializer implementations must
//     satisfy, generic over the map's key and value types.
//
//   - State: The persisted layout, {entries, track_changes}. Deserializing
//     a State rebuilds the store directly; no per-entry mutation,
//     notification or undo logic is replayed.
//
//   - jsonSerializerImpl: JSON encoding, human-readable, useful for
//     debugging and interoperability. Requires keys that marshal as json
//     object keys.
//
//   - gobSerializerImpl: Go's gob encoding, works for any gob-encodable
//     key/value types.
//
//   - binarySerializerImpl: Custom binary format specialized for
//     string-to-bytes maps, smallest payload and fastest of the three.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent
//	use across multiple goroutines without additional synchronization.
package serializer
