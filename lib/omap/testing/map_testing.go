package testing

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/ValentinKolb/omap/lib/notify"
	"github.com/ValentinKolb/omap/lib/omap"
)

// MapFactory is a function that creates a new observable map under test
type MapFactory func() *omap.Map[string, int]

// RunMapTests runs a comprehensive contract test suite against a map
// factory. The suite only relies on the documented map contract, so it can
// be run against any option combination (marshaled, inline, tracking off).
func RunMapTests(t *testing.T, name string, factory MapFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory())
		})

		t.Run("Add", func(t *testing.T) {
			testAdd(t, factory())
		})

		t.Run("Remove", func(t *testing.T) {
			testRemove(t, factory())
		})

		t.Run("Clear", func(t *testing.T) {
			testClear(t, factory())
		})

		t.Run("ReplaceAll", func(t *testing.T) {
			testReplaceAll(t, factory())
		})

		t.Run("AddRange", func(t *testing.T) {
			testAddRange(t, factory())
		})

		t.Run("SafeOperations", func(t *testing.T) {
			testSafeOperations(t, factory())
		})

		t.Run("Snapshots", func(t *testing.T) {
			testSnapshots(t, factory())
		})

		t.Run("SequenceEquivalence", func(t *testing.T) {
			testSequenceEquivalence(t, factory())
		})

		t.Run("ConcurrentAddRemove", func(t *testing.T) {
			testConcurrentAddRemove(t, factory())
		})

		t.Run("SnapshotIsolation", func(t *testing.T) {
			testSnapshotIsolation(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, m *omap.Map[string, int]) {
	defer m.Close()

	m.Set("a", 1)

	got, err := m.Get("a")
	if err != nil {
		t.Fatalf("Get failed after Set: %v", err)
	}
	if got != 1 {
		t.Errorf("expected 1, got %d", got)
	}

	// overwrite
	m.Set("a", 2)
	if got, _ := m.Get("a"); got != 2 {
		t.Errorf("expected 2 after overwrite, got %d", got)
	}
	if m.Count() != 1 {
		t.Errorf("expected count 1, got %d", m.Count())
	}

	// missing key
	if _, err := m.Get("missing"); !omap.IsKeyNotFound(err) {
		t.Errorf("expected KeyNotFound error, got %v", err)
	}

	// TryGet never errors
	if _, ok := m.TryGet("missing"); ok {
		t.Error("TryGet reported a missing key as present")
	}
	if v, ok := m.TryGet("a"); !ok || v != 2 {
		t.Errorf("TryGet returned (%d, %v), expected (2, true)", v, ok)
	}
}

func testAdd(t *testing.T, m *omap.Map[string, int]) {
	defer m.Close()

	if err := m.Add("a", 1); err != nil {
		t.Fatalf("first Add failed: %v", err)
	}

	err := m.Add("a", 2)
	if !omap.IsDuplicateKey(err) {
		t.Errorf("expected DuplicateKey error, got %v", err)
	}

	// failed Add must not change the store
	if got, _ := m.Get("a"); got != 1 {
		t.Errorf("failed Add modified the value: %d", got)
	}
}

func testRemove(t *testing.T, m *omap.Map[string, int]) {
	defer m.Close()

	m.Set("a", 1)

	if !m.Remove("a") {
		t.Error("Remove of existing key returned false")
	}
	if m.Remove("a") {
		t.Error("Remove of absent key returned true")
	}
	if m.ContainsKey("a") {
		t.Error("key still present after Remove")
	}
}

func testClear(t *testing.T, m *omap.Map[string, int]) {
	defer m.Close()

	for i := 0; i < 10; i++ {
		m.Set(fmt.Sprintf("key-%d", i), i)
	}

	m.Clear()
	if m.Count() != 0 {
		t.Errorf("expected empty map after Clear, got %d entries", m.Count())
	}

	// clearing an empty map is a no-op
	m.Clear()
	if m.Count() != 0 {
		t.Error("Clear on empty map changed the count")
	}
}

func testReplaceAll(t *testing.T, m *omap.Map[string, int]) {
	defer m.Close()

	m.Set("old", 1)

	replacement := map[string]int{"a": 1, "b": 2}
	m.ReplaceAll(replacement)

	if m.Count() != 2 {
		t.Fatalf("expected 2 entries, got %d", m.Count())
	}
	if m.ContainsKey("old") {
		t.Error("old contents survived ReplaceAll")
	}

	// the map must own a copy, not the caller's map
	replacement["c"] = 3
	if m.ContainsKey("c") {
		t.Error("map shares storage with the caller's map")
	}
}

func testAddRange(t *testing.T, m *omap.Map[string, int]) {
	defer m.Close()

	m.Set("b", 99)

	pairs := []notify.Entry[string, int]{
		{Key: "a", Value: 1},
		{Key: "b", Value: 2},
		{Key: "c", Value: 3},
	}

	// skipExisting: existing "b" keeps its value
	if err := m.AddRange(pairs, true); err != nil {
		t.Fatalf("AddRange with skipExisting failed: %v", err)
	}
	if got, _ := m.Get("b"); got != 99 {
		t.Errorf("skipExisting overwrote existing value: %d", got)
	}
	if m.Count() != 3 {
		t.Errorf("expected 3 entries, got %d", m.Count())
	}

	// without skipExisting a duplicate aborts before any mutation
	err := m.AddRange([]notify.Entry[string, int]{
		{Key: "z", Value: 26},
		{Key: "a", Value: 0},
	}, false)
	if !omap.IsDuplicateKey(err) {
		t.Fatalf("expected DuplicateKey error, got %v", err)
	}
	if m.ContainsKey("z") {
		t.Error("aborted AddRange left a partial insert behind")
	}
}

func testSafeOperations(t *testing.T, m *omap.Map[string, int]) {
	defer m.Close()

	if !m.SafeAdd("a", 1) {
		t.Error("first SafeAdd returned false")
	}
	if m.SafeAdd("a", 2) {
		t.Error("second SafeAdd returned true")
	}
	if got, _ := m.Get("a"); got != 1 {
		t.Errorf("second SafeAdd modified the store: %d", got)
	}

	value, ok := m.TakeAndRemove("a")
	if !ok || value != 1 {
		t.Errorf("TakeAndRemove returned (%d, %v), expected (1, true)", value, ok)
	}
	if m.ContainsKey("a") {
		t.Error("key still present after TakeAndRemove")
	}
	if _, ok := m.TakeAndRemove("a"); ok {
		t.Error("TakeAndRemove of absent key returned true")
	}
}

func testSnapshots(t *testing.T, m *omap.Map[string, int]) {
	defer m.Close()

	m.Set("a", 1)
	m.Set("b", 2)

	keys := m.Keys()
	values := m.Values()
	items := m.Items()

	if len(keys) != 2 || len(values) != 2 || len(items) != 2 {
		t.Fatalf("snapshot sizes %d/%d/%d, expected 2 each", len(keys), len(values), len(items))
	}

	// snapshots are independent of later mutations
	m.Set("c", 3)
	if len(items) != 2 {
		t.Error("Items snapshot changed after mutation")
	}
}

// testSequenceEquivalence checks that a random mutation sequence leaves the
// map with exactly the contents an ordinary map would have
func testSequenceEquivalence(t *testing.T, m *omap.Map[string, int]) {
	defer m.Close()

	rng := rand.New(rand.NewSource(42))
	reference := make(map[string]int)

	for i := 0; i < 1000; i++ {
		key := fmt.Sprintf("key-%d", rng.Intn(50))
		switch rng.Intn(4) {
		case 0, 1:
			value := rng.Intn(1000)
			m.Set(key, value)
			reference[key] = value
		case 2:
			m.Remove(key)
			delete(reference, key)
		case 3:
			if rng.Intn(20) == 0 {
				m.Clear()
				reference = make(map[string]int)
			}
		}
	}

	if m.Count() != len(reference) {
		t.Fatalf("count %d, reference has %d", m.Count(), len(reference))
	}
	for key, want := range reference {
		if got, err := m.Get(key); err != nil || got != want {
			t.Errorf("key %s: got (%d, %v), want %d", key, got, err, want)
		}
	}
}

// testConcurrentAddRemove launches concurrent adds and removes with
// distinct keys and checks that no update is lost
func testConcurrentAddRemove(t *testing.T, m *omap.Map[string, int]) {
	defer m.Close()

	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	var added, removed int64
	var mu sync.Mutex

	for w := 0; w < workers; w++ {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				key := fmt.Sprintf("w%d-k%d", w, i)
				if err := m.Add(key, i); err == nil {
					mu.Lock()
					added++
					mu.Unlock()
				}
				if i%2 == 0 {
					if m.Remove(key) {
						mu.Lock()
						removed++
						mu.Unlock()
					}
				}
			}
		}()
	}
	wg.Wait()

	if int64(m.Count()) != added-removed {
		t.Errorf("count %d, expected %d adds - %d removes = %d",
			m.Count(), added, removed, added-removed)
	}
}

// testSnapshotIsolation checks that a snapshot taken before a concurrent
// Clear is either complete or untouched, never partial
func testSnapshotIsolation(t *testing.T, m *omap.Map[string, int]) {
	defer m.Close()

	const n = 100
	for i := 0; i < n; i++ {
		m.Set(fmt.Sprintf("key-%d", i), i)
	}

	var wg sync.WaitGroup
	wg.Add(2)

	var snapshot map[string]int
	go func() {
		defer wg.Done()
		snapshot = m.Items()
	}()
	go func() {
		defer wg.Done()
		m.Clear()
	}()
	wg.Wait()

	if len(snapshot) != 0 && len(snapshot) != n {
		t.Errorf("partial snapshot of %d entries, expected 0 or %d", len(snapshot), n)
	}
}
