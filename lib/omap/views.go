package omap

import (
	"fmt"

	"github.com/ValentinKolb/omap/lib/notify"
)

// --------------------------------------------------------------------------
// Read-Only View
// --------------------------------------------------------------------------

// readOnlyView exposes the read capability subset of a Map
type readOnlyView[K comparable, V any] struct {
	m *Map[K, V]
}

// ReadOnly returns a read-only view of the map. The view shares the
// underlying store; it is a capability restriction, not a copy.
func ReadOnly[K comparable, V any](m *Map[K, V]) IReadOnlyMap[K, V] {
	return readOnlyView[K, V]{m: m}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see omap.IReadOnlyMap)
// --------------------------------------------------------------------------

func (v readOnlyView[K, V]) Get(key K) (V, error)   { return v.m.Get(key) }
func (v readOnlyView[K, V]) TryGet(key K) (V, bool) { return v.m.TryGet(key) }
func (v readOnlyView[K, V]) ContainsKey(key K) bool { return v.m.ContainsKey(key) }
func (v readOnlyView[K, V]) Count() int             { return v.m.Count() }
func (v readOnlyView[K, V]) Keys() []K              { return v.m.Keys() }
func (v readOnlyView[K, V]) Values() []V            { return v.m.Values() }
func (v readOnlyView[K, V]) Items() map[K]V         { return v.m.Items() }

func (v readOnlyView[K, V]) Subscribe(fn notify.Observer[K, V]) func() {
	return v.m.Subscribe(fn)
}

func (v readOnlyView[K, V]) SubscribeCount(fn notify.CountObserver) func() {
	return v.m.SubscribeCount(fn)
}

// --------------------------------------------------------------------------
// Untyped (legacy) View
// --------------------------------------------------------------------------

// untypedView exposes a Map through an any-typed legacy surface
type untypedView[K comparable, V any] struct {
	m *Map[K, V]
}

// Untyped returns an object-typed view of the map for consumers that only
// know the legacy untyped-map contract. Wrong runtime key or value types
// are rejected with a RetCInvalidCast error.
func Untyped[K comparable, V any](m *Map[K, V]) IUntypedMap {
	return untypedView[K, V]{m: m}
}

// castKey converts an any-typed key to K or reports an invalid cast
func (v untypedView[K, V]) castKey(key any) (K, error) {
	k, ok := key.(K)
	if !ok {
		var zero K
		return zero, NewError(RetCInvalidCast,
			fmt.Sprintf("key %v (%T) is not of type %T", key, key, zero))
	}
	return k, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see omap.IUntypedMap)
// --------------------------------------------------------------------------

func (v untypedView[K, V]) Get(key any) (any, error) {
	k, err := v.castKey(key)
	if err != nil {
		return nil, err
	}
	return v.m.Get(k)
}

func (v untypedView[K, V]) Set(key, value any) error {
	k, err := v.castKey(key)
	if err != nil {
		return err
	}
	val, ok := value.(V)
	if !ok {
		var zero V
		return NewError(RetCInvalidCast,
			fmt.Sprintf("value %v (%T) is not of type %T", value, value, zero))
	}
	v.m.Set(k, val)
	return nil
}

func (v untypedView[K, V]) Remove(key any) (bool, error) {
	k, err := v.castKey(key)
	if err != nil {
		return false, err
	}
	return v.m.Remove(k), nil
}

func (v untypedView[K, V]) ContainsKey(key any) (bool, error) {
	k, err := v.castKey(key)
	if err != nil {
		return false, err
	}
	return v.m.ContainsKey(k), nil
}

func (v untypedView[K, V]) Count() int {
	return v.m.Count()
}
