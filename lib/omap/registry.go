package omap

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// Named-Map Registry
// --------------------------------------------------------------------------

// registry holds all process-wide named maps. UI binding code typically
// resolves its collections by name at view construction time.
var registry = xsync.NewMapOf[string, any]()

// Register publishes a map under a process-wide unique name. It returns a
// RetCDuplicateKey error if the name is already taken.
func Register[K comparable, V any](name string, m *Map[K, V]) error {
	if _, loaded := registry.LoadOrStore(name, m); loaded {
		return NewError(RetCDuplicateKey, fmt.Sprintf("map name %q already registered", name))
	}
	return nil
}

// Lookup resolves a registered map by name. It returns a RetCKeyNotFound
// error for unknown names and a RetCInvalidCast error if the registered
// map has different key/value types than requested.
func Lookup[K comparable, V any](name string) (*Map[K, V], error) {
	stored, ok := registry.Load(name)
	if !ok {
		return nil, NewError(RetCKeyNotFound, fmt.Sprintf("no map registered under %q", name))
	}

	m, ok := stored.(*Map[K, V])
	if !ok {
		return nil, NewError(RetCInvalidCast,
			fmt.Sprintf("map %q is a %T, not the requested type", name, stored))
	}
	return m, nil
}

// Unregister removes a named map from the registry, returning whether it
// was registered.
func Unregister(name string) bool {
	_, loaded := registry.LoadAndDelete(name)
	return loaded
}
