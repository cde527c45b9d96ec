package omap

import (
	"errors"
	"fmt"

	"github.com/ValentinKolb/omap/lib/notify"
)

// --------------------------------------------------------------------------
// Interface Definitions
// --------------------------------------------------------------------------

// IReadOnlyMap is the capability subset exposed to consumers that may
// observe but never mutate the map. Obtain one via ReadOnly().
type IReadOnlyMap[K comparable, V any] interface {
	// Get returns the value for a key or a RetCKeyNotFound error.
	Get(key K) (value V, err error)
	// TryGet returns the value for a key. The boolean return value
	// indicates whether the key was found.
	TryGet(key K) (value V, ok bool)
	// ContainsKey returns whether a key exists in the map.
	ContainsKey(key K) (ok bool)
	// Count returns the number of entries.
	Count() (n int)
	// Keys returns an independent snapshot of all keys.
	Keys() (keys []K)
	// Values returns an independent snapshot of all values.
	Values() (values []V)
	// Items returns an independent point-in-time copy of all entries.
	Items() (items map[K]V)
	// Subscribe registers a change observer, see Map.Subscribe.
	Subscribe(fn notify.Observer[K, V]) (unsubscribe func())
	// SubscribeCount registers a count observer, see Map.SubscribeCount.
	SubscribeCount(fn notify.CountObserver) (unsubscribe func())
}

// IUntypedMap is the legacy object-typed capability surface. Accessing it
// with keys or values of the wrong runtime type yields a RetCInvalidCast
// error instead of a panic. Obtain one via Untyped().
type IUntypedMap interface {
	// Get returns the value for a key or a RetCKeyNotFound /
	// RetCInvalidCast error.
	Get(key any) (value any, err error)
	// Set inserts or overwrites an entry.
	Set(key, value any) (err error)
	// Remove removes an entry, returning whether it existed.
	Remove(key any) (ok bool, err error)
	// ContainsKey returns whether a key exists in the map.
	ContainsKey(key any) (ok bool, err error)
	// Count returns the number of entries.
	Count() (n int)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	errorCode := ""
	switch e.Code {
	case RetCDuplicateKey:
		errorCode = "DuplicateKey"
	case RetCKeyNotFound:
		errorCode = "KeyNotFound"
	case RetCInvalidCast:
		errorCode = "InvalidCast"
	case RetCInternalError:
		errorCode = "InternalError"
	default:
		errorCode = "Unknown"
	}

	return fmt.Sprintf("MapError (code %s): %s", errorCode, e.Msg)
}

// NewError creates a new map Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// hasCode reports whether err is a map Error carrying the given code
func hasCode(err error, code RetCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// IsDuplicateKey returns whether err reports an add with an existing key.
func IsDuplicateKey(err error) bool { return hasCode(err, RetCDuplicateKey) }

// IsKeyNotFound returns whether err reports a lookup of an absent key.
func IsKeyNotFound(err error) bool { return hasCode(err, RetCKeyNotFound) }

// IsInvalidCast returns whether err reports object-typed access with a
// wrong runtime type.
func IsInvalidCast(err error) bool { return hasCode(err, RetCInvalidCast) }

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess       RetCode = iota // 0: Operation executed successfully.
	RetCDuplicateKey                 // 1: Add called with an already existing key.
	RetCKeyNotFound                  // 2: Get called with an absent key.
	RetCInvalidCast                  // 3: Object-typed access with a wrong runtime type.
	RetCInternalError                // 4: Operation failed due to an internal error.
)
