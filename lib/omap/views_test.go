package omap_test

import (
	"testing"

	"github.com/ValentinKolb/omap/lib/notify"
	"github.com/ValentinKolb/omap/lib/omap"
)

func TestReadOnlyViewSharesStore(t *testing.T) {
	m := omap.New[string, int](nil)
	defer m.Close()

	view := omap.ReadOnly(m)

	m.Set("a", 1)

	if got, err := view.Get("a"); err != nil || got != 1 {
		t.Errorf("view.Get returned (%d, %v), want (1, nil)", got, err)
	}
	if view.Count() != 1 {
		t.Errorf("view.Count = %d, want 1", view.Count())
	}
	if _, err := view.Get("missing"); !omap.IsKeyNotFound(err) {
		t.Errorf("expected KeyNotFound, got %v", err)
	}
}

func TestReadOnlyViewObserves(t *testing.T) {
	m := omap.New[string, int](nil)
	defer m.Close()

	view := omap.ReadOnly(m)

	var events []notify.Action
	unsubscribe := view.Subscribe(func(e notify.Event[string, int]) {
		events = append(events, e.Action)
	})

	m.Set("a", 1)
	unsubscribe()
	m.Set("b", 2)

	if len(events) != 1 || events[0] != notify.ActionAdd {
		t.Errorf("expected one Add observation, got %v", events)
	}
}

func TestUntypedViewRoundTrip(t *testing.T) {
	m := omap.New[string, int](nil)
	defer m.Close()

	view := omap.Untyped(m)

	if err := view.Set("a", 1); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := view.Get("a")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.(int) != 1 {
		t.Errorf("expected 1, got %v", got)
	}

	ok, err := view.ContainsKey("a")
	if err != nil || !ok {
		t.Errorf("ContainsKey returned (%v, %v)", ok, err)
	}

	removed, err := view.Remove("a")
	if err != nil || !removed {
		t.Errorf("Remove returned (%v, %v)", removed, err)
	}
	if view.Count() != 0 {
		t.Errorf("expected empty map, got %d entries", view.Count())
	}
}

func TestUntypedViewRejectsWrongTypes(t *testing.T) {
	m := omap.New[string, int](nil)
	defer m.Close()

	m.Set("a", 1)
	view := omap.Untyped(m)

	// wrong key type
	if _, err := view.Get(42); !omap.IsInvalidCast(err) {
		t.Errorf("expected InvalidCast for int key, got %v", err)
	}

	// wrong value type
	if err := view.Set("b", "not an int"); !omap.IsInvalidCast(err) {
		t.Errorf("expected InvalidCast for string value, got %v", err)
	}
	if m.ContainsKey("b") {
		t.Error("rejected Set still mutated the store")
	}

	// absent key with the right type is KeyNotFound, not a cast error
	if _, err := view.Get("missing"); !omap.IsKeyNotFound(err) {
		t.Errorf("expected KeyNotFound, got %v", err)
	}
}
