package omap

import (
	"fmt"
	"io"
	"reflect"
	"sync"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/mitchellh/copystructure"
	"github.com/samber/lo"

	"github.com/ValentinKolb/omap/lib/executor"
	"github.com/ValentinKolb/omap/lib/metrics"
	"github.com/ValentinKolb/omap/lib/notify"
	"github.com/ValentinKolb/omap/lib/serializer"
	"github.com/ValentinKolb/omap/lib/undo"
)

var log = logger.GetLogger("omap")

// DefaultUndoLabel is the label used for individually scoped undo records
// when no caller-supplied label is configured.
const DefaultUndoLabel = "map change"

// --------------------------------------------------------------------------
// Options
// --------------------------------------------------------------------------

// Options configures a Map during construction
type Options struct {
	// Marshaled controls whether mutating operations (and suppression
	// toggles) are marshaled onto a home executor goroutine
	Marshaled bool

	// Executor is the home context used when Marshaled is set. nil means
	// the map creates and owns its own loop executor.
	Executor executor.IExecutor

	// TrackChanges controls whether inverse actions are built and
	// forwarded to the resolved accumulator
	TrackChanges bool

	// Resolver supplies the default accumulator when no local override is
	// assigned. Evaluated once per mutating call.
	Resolver undo.Resolver

	// ScopeEachChange wraps each mutation in its own single-action undo
	// scope on the FallbackScoper when no accumulator resolves
	ScopeEachChange bool

	// FallbackScoper receives the individually scoped records, see
	// ScopeEachChange
	FallbackScoper undo.IAccumulator

	// UndoLabel is the label of individually scoped undo records
	// ("" = DefaultUndoLabel)
	UndoLabel string
}

// DefaultOptions returns the default Map options: change tracking on,
// no marshaling, no accumulator wiring.
func DefaultOptions() *Options {
	return &Options{
		TrackChanges: true,
		UndoLabel:    DefaultUndoLabel,
	}
}

// --------------------------------------------------------------------------
// Map
// --------------------------------------------------------------------------

// Map is a thread-safe, mutation-observable associative map intended for
// binding to UI presentation layers. Every structural change is reported
// through registered observers and simultaneously recorded as an inverse
// action forwarded to an external undo accumulator.
//
// One exclusive lock serializes all reads and writes; no operation holds
// the lock across calls. Observers and the accumulator are invoked while
// the mutating call still holds the lock, so they must never call back
// into the map synchronously. Snapshot accessors (Keys, Values, Items)
// return independent copies.
type Map[K comparable, V any] struct {
	mu    sync.Mutex
	items map[K]V

	notifier *notify.Notifier[K, V]

	marshaled bool
	exec      executor.IExecutor
	ownsExec  bool

	trackChanges   bool
	localAcc       undo.IAccumulator
	resolver       undo.Resolver
	scopeEach      bool
	fallbackScoper undo.IAccumulator
	undoLabel      string
}

// New creates an empty observable map with the specified options
// (nil = DefaultOptions).
func New[K comparable, V any](opts *Options) *Map[K, V] {
	return NewFrom[K, V](nil, opts)
}

// NewFrom creates an observable map pre-populated with a copy of the given
// entries. Construction does not notify and does not record undo actions.
func NewFrom[K comparable, V any](entries map[K]V, opts *Options) *Map[K, V] {
	if opts == nil {
		opts = DefaultOptions()
	}

	items := make(map[K]V, len(entries))
	for k, v := range entries {
		items[k] = v
	}

	label := opts.UndoLabel
	if label == "" {
		label = DefaultUndoLabel
	}

	m := &Map[K, V]{
		items:          items,
		notifier:       notify.NewNotifier[K, V](opts.Marshaled),
		marshaled:      opts.Marshaled,
		exec:           opts.Executor,
		trackChanges:   opts.TrackChanges,
		resolver:       opts.Resolver,
		scopeEach:      opts.ScopeEachChange,
		fallbackScoper: opts.FallbackScoper,
		undoLabel:      label,
	}

	if m.marshaled && m.exec == nil {
		m.exec = executor.NewLoopExecutor()
		m.ownsExec = true
	}

	return m
}

// Close releases the map's home executor if the map owns one. The map
// remains usable afterwards, mutations simply run inline.
func (m *Map[K, V]) Close() error {
	if m.ownsExec {
		return m.exec.Close()
	}
	return nil
}

// --------------------------------------------------------------------------
// Executor Marshaling
// --------------------------------------------------------------------------

// runMutation routes a mutating operation onto the home context. The
// operation runs inline when marshaling is disabled, the caller already is
// the home context, or suppression is active and the call is not forced.
// Otherwise it is posted and the caller blocks until completion.
func (m *Map[K, V]) runMutation(forced bool, op func()) {
	if !m.marshaled || m.exec == nil || m.exec.IsHomeContext() {
		op()
		return
	}
	if !forced && m.notifier.Suppressed() {
		op()
		return
	}
	m.exec.PostAndWait(op)
}

// --------------------------------------------------------------------------
// Read Operations
// --------------------------------------------------------------------------

// Get returns the value for a key or a RetCKeyNotFound error.
func (m *Map[K, V]) Get(key K) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	value, ok := m.items[key]
	if !ok {
		var zero V
		return zero, NewError(RetCKeyNotFound, fmt.Sprintf("key %v not found", key))
	}
	return value, nil
}

// TryGet returns the value for a key. The boolean return value indicates
// whether the key was found.
func (m *Map[K, V]) TryGet(key K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	value, ok := m.items[key]
	return value, ok
}

// ContainsKey returns whether a key exists in the map.
func (m *Map[K, V]) ContainsKey(key K) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.items[key]
	return ok
}

// Count returns the number of entries.
func (m *Map[K, V]) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Keys returns an independent snapshot of all keys. No ordering is
// guaranteed.
func (m *Map[K, V]) Keys() []K {
	m.mu.Lock()
	defer m.mu.Unlock()
	return lo.Keys(m.items)
}

// Values returns an independent snapshot of all values.
func (m *Map[K, V]) Values() []V {
	m.mu.Lock()
	defer m.mu.Unlock()
	return lo.Values(m.items)
}

// Items returns an independent point-in-time copy of all entries.
// Mutating the map during iteration of the returned copy is safe.
func (m *Map[K, V]) Items() map[K]V {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// snapshotLocked returns a shallow copy of the store. Callers must hold m.mu.
func (m *Map[K, V]) snapshotLocked() map[K]V {
	items := make(map[K]V, len(m.items))
	for k, v := range m.items {
		items[k] = v
	}
	return items
}

// --------------------------------------------------------------------------
// Write Operations
// --------------------------------------------------------------------------

// Set inserts or overwrites an entry. An insert raises an Add event, an
// overwrite raises a Replace event carrying the prior value.
func (m *Map[K, V]) Set(key K, value V) {
	m.runMutation(false, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.setLocked(key, value)
	})
}

// setLocked is the shared implementation of Set and the untyped view's Set.
// Callers must hold m.mu.
func (m *Map[K, V]) setLocked(key K, value V) {
	old, existed := m.items[key]
	m.items[key] = value
	metrics.Mutations.Inc()

	if existed {
		m.pushInverseLocked(func() { m.Set(key, old) })
		m.notifyLocked(notify.Event[K, V]{
			Action:  notify.ActionReplace,
			NewItem: &notify.Entry[K, V]{Key: key, Value: value},
			OldItem: &notify.Entry[K, V]{Key: key, Value: old},
		})
		return
	}

	m.pushInverseLocked(func() { m.Remove(key) })
	m.notifyLocked(notify.Event[K, V]{
		Action:  notify.ActionAdd,
		NewItem: &notify.Entry[K, V]{Key: key, Value: value},
	})
}

// Add inserts a new entry. It returns a RetCDuplicateKey error if the key
// already exists; the map is unchanged in that case.
func (m *Map[K, V]) Add(key K, value V) error {
	var err error
	m.runMutation(false, func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		if _, existed := m.items[key]; existed {
			err = NewError(RetCDuplicateKey, fmt.Sprintf("key %v already exists", key))
			return
		}

		m.items[key] = value
		metrics.Mutations.Inc()

		m.pushInverseLocked(func() { m.Remove(key) })
		m.notifyLocked(notify.Event[K, V]{
			Action:  notify.ActionAdd,
			NewItem: &notify.Entry[K, V]{Key: key, Value: value},
		})
	})
	return err
}

// Remove removes an entry. It is a no-op returning false if the key is
// absent.
func (m *Map[K, V]) Remove(key K) bool {
	var removed bool
	m.runMutation(false, func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		old, existed := m.items[key]
		if !existed {
			return
		}

		delete(m.items, key)
		removed = true
		metrics.Mutations.Inc()

		m.pushInverseLocked(func() { m.Set(key, old) })
		m.notifyLocked(notify.Event[K, V]{
			Action:  notify.ActionRemove,
			OldItem: &notify.Entry[K, V]{Key: key, Value: old},
		})
	})
	return removed
}

// Clear removes all entries and raises a single Reset event. Clearing an
// empty map is a no-op.
func (m *Map[K, V]) Clear() {
	m.runMutation(false, func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		if len(m.items) == 0 {
			return
		}

		prior := m.deepCopyLocked()
		m.items = make(map[K]V)
		metrics.Mutations.Inc()

		m.pushInverseLocked(func() { m.ReplaceAll(prior) })
		m.notifyLocked(notify.Event[K, V]{Action: notify.ActionReset})
	})
}

// ReplaceAll replaces the whole contents of the map with a copy of the
// given entries and raises a single Reset event.
func (m *Map[K, V]) ReplaceAll(entries map[K]V) {
	m.runMutation(false, func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		prior := m.deepCopyLocked()

		m.items = make(map[K]V, len(entries))
		for k, v := range entries {
			m.items[k] = v
		}
		metrics.Mutations.Inc()

		m.pushInverseLocked(func() { m.ReplaceAll(prior) })
		m.notifyLocked(notify.Event[K, V]{Action: notify.ActionReset})
	})
}

// AddRange inserts the given pairs in order. With skipExisting, pairs whose
// key is already present are skipped silently. Without it, any existing key
// aborts the whole call with a RetCDuplicateKey error before the first
// insert. One inverse action covering all inserted pairs is recorded.
func (m *Map[K, V]) AddRange(pairs []notify.Entry[K, V], skipExisting bool) error {
	var err error
	m.runMutation(false, func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		if !skipExisting {
			seen := make(map[K]struct{}, len(pairs))
			for _, pair := range pairs {
				_, inStore := m.items[pair.Key]
				_, inPairs := seen[pair.Key]
				if inStore || inPairs {
					err = NewError(RetCDuplicateKey, fmt.Sprintf("key %v already exists", pair.Key))
					return
				}
				seen[pair.Key] = struct{}{}
			}
		}

		var added []K
		for _, pair := range pairs {
			if _, existed := m.items[pair.Key]; existed {
				continue
			}
			m.items[pair.Key] = pair.Value
			added = append(added, pair.Key)
			metrics.Mutations.Inc()

			m.notifyLocked(notify.Event[K, V]{
				Action:  notify.ActionAdd,
				NewItem: &notify.Entry[K, V]{Key: pair.Key, Value: pair.Value},
			})
		}

		if len(added) > 0 {
			m.pushInverseLocked(func() {
				for _, key := range added {
					m.Remove(key)
				}
			})
		}
	})
	return err
}

// --------------------------------------------------------------------------
// Safe Convenience Operations
// --------------------------------------------------------------------------

// SafeAdd inserts an entry with at-most-once semantics. It returns false,
// without error, when the key is already present or is a null-equivalent
// key (nil pointer, nil interface).
func (m *Map[K, V]) SafeAdd(key K, value V) bool {
	var added bool
	m.runMutation(false, func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		if isNilKey(key) {
			return
		}
		if _, existed := m.items[key]; existed {
			return
		}

		m.items[key] = value
		added = true
		metrics.Mutations.Inc()

		m.pushInverseLocked(func() { m.Remove(key) })
		m.notifyLocked(notify.Event[K, V]{
			Action:  notify.ActionAdd,
			NewItem: &notify.Entry[K, V]{Key: key, Value: value},
		})
	})
	return added
}

// TakeAndRemove atomically reads and removes an entry. It returns false,
// without error, when the key is absent or null-equivalent.
func (m *Map[K, V]) TakeAndRemove(key K) (V, bool) {
	var value V
	var taken bool
	m.runMutation(false, func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		if isNilKey(key) {
			return
		}
		old, existed := m.items[key]
		if !existed {
			return
		}

		delete(m.items, key)
		value = old
		taken = true
		metrics.Mutations.Inc()

		m.pushInverseLocked(func() { m.Set(key, old) })
		m.notifyLocked(notify.Event[K, V]{
			Action:  notify.ActionRemove,
			OldItem: &notify.Entry[K, V]{Key: key, Value: old},
		})
	})
	return value, taken
}

// --------------------------------------------------------------------------
// Notification Wiring
// --------------------------------------------------------------------------

// Subscribe registers an observer for structural change events and returns
// its removal function. Observers run synchronously on the mutating
// goroutine and must not call back into the map.
func (m *Map[K, V]) Subscribe(fn notify.Observer[K, V]) (unsubscribe func()) {
	return m.notifier.Subscribe(fn)
}

// SubscribeCount registers an observer for the companion count-changed
// notification and returns its removal function.
func (m *Map[K, V]) SubscribeCount(fn notify.CountObserver) (unsubscribe func()) {
	return m.notifier.SubscribeCount(fn)
}

// SuppressNotifications toggles notification suppression. The toggle is
// always forced onto the home context; disabling suppression after at
// least one suppressed mutation delivers exactly one coalesced Reset.
func (m *Map[K, V]) SuppressNotifications(suppress bool) {
	m.runMutation(true, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.notifier.SetSuppressed(suppress, len(m.items))
	})
}

// IsSuppressed returns whether notification delivery is currently
// suppressed.
func (m *Map[K, V]) IsSuppressed() bool {
	return m.notifier.Suppressed()
}

// notifyLocked delivers one event with the store's current count.
// Callers must hold m.mu.
func (m *Map[K, V]) notifyLocked(event notify.Event[K, V]) {
	m.notifier.Notify(event, len(m.items))
}

// --------------------------------------------------------------------------
// Undo Integration
// --------------------------------------------------------------------------

// SetAccumulator assigns (or, with nil, removes) the local accumulator
// override. The override takes priority over the Resolver.
func (m *Map[K, V]) SetAccumulator(acc undo.IAccumulator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.localAcc = acc
}

// SetTrackChanges enables or disables undo integration for this map.
func (m *Map[K, V]) SetTrackChanges(track bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trackChanges = track
}

// TrackChanges returns whether undo integration is enabled.
func (m *Map[K, V]) TrackChanges() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trackChanges
}

// pushInverseLocked forwards one inverse action to the resolved
// accumulator: local override first, then the Resolver's result, then the
// individually-scoped fallback if that policy is active. Exactly one
// inverse is pushed per mutating call. Callers must hold m.mu.
func (m *Map[K, V]) pushInverseLocked(inverse undo.Action) {
	if !m.trackChanges {
		return
	}

	acc := m.localAcc
	if acc == nil && m.resolver != nil {
		acc = m.resolver()
	}
	if acc != nil {
		acc.AddUndo(inverse)
		metrics.UndoActions.Inc()
		return
	}

	if m.scopeEach && m.fallbackScoper != nil {
		m.fallbackScoper.TrackSingle(m.undoLabel, inverse)
		metrics.UndoActions.Inc()
	}
}

// deepCopyLocked captures the current contents for undo restoration.
// Nested maps and slices inside values are copied too, so later mutations
// of the live values cannot corrupt the captured state. Callers must hold
// m.mu.
func (m *Map[K, V]) deepCopyLocked() map[K]V {
	copied, err := copystructure.Copy(m.items)
	if err != nil {
		// values the reflection walker cannot handle (e.g. functions)
		// degrade to a shallow snapshot
		log.Warningf("deep copy failed, falling back to shallow copy: %v", err)
		return m.snapshotLocked()
	}
	return copied.(map[K]V)
}

// --------------------------------------------------------------------------
// Persistence
// --------------------------------------------------------------------------

// Save writes the persisted form of the map ({entries, trackChanges}) to w
// using the given serializer.
func (m *Map[K, V]) Save(w io.Writer, s serializer.ISerializer[K, V]) error {
	m.mu.Lock()
	state := serializer.State[K, V]{
		Entries:      m.snapshotLocked(),
		TrackChanges: m.trackChanges,
	}
	m.mu.Unlock()

	data, err := s.Serialize(state)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Load replaces the map's contents with the state read from r. The store
// is rebuilt directly from the persisted entries: no per-entry mutation,
// notification or undo logic is replayed, a single Reset is raised instead.
func (m *Map[K, V]) Load(r io.Reader, s serializer.ISerializer[K, V]) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	var state serializer.State[K, V]
	if err := s.Deserialize(data, &state); err != nil {
		return err
	}

	m.runMutation(false, func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		m.items = make(map[K]V, len(state.Entries))
		for k, v := range state.Entries {
			m.items[k] = v
		}
		m.trackChanges = state.TrackChanges

		m.notifyLocked(notify.Event[K, V]{Action: notify.ActionReset})
	})
	return nil
}

// --------------------------------------------------------------------------
// Helper Functions
// --------------------------------------------------------------------------

// isNilKey reports whether key is a null-equivalent value: a nil pointer,
// or a nil value behind an interface-typed key.
func isNilKey[K comparable](key K) bool {
	v := reflect.ValueOf(key)
	if !v.IsValid() {
		// zero value of an interface-typed K
		return true
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Chan, reflect.Map, reflect.Func, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}
