package omap_test

import (
	"testing"

	"github.com/ValentinKolb/omap/lib/omap"
)

func TestRegistryRegisterLookup(t *testing.T) {
	m := omap.New[string, int](nil)
	defer m.Close()
	defer omap.Unregister("cells")

	if err := omap.Register("cells", m); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got, err := omap.Lookup[string, int]("cells")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got != m {
		t.Error("Lookup returned a different map")
	}
}

func TestRegistryDuplicateName(t *testing.T) {
	m := omap.New[string, int](nil)
	defer m.Close()
	defer omap.Unregister("dup")

	if err := omap.Register("dup", m); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if err := omap.Register("dup", m); !omap.IsDuplicateKey(err) {
		t.Errorf("expected DuplicateKey, got %v", err)
	}
}

func TestRegistryTypeMismatch(t *testing.T) {
	m := omap.New[string, int](nil)
	defer m.Close()
	defer omap.Unregister("typed")

	if err := omap.Register("typed", m); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := omap.Lookup[string, string]("typed"); !omap.IsInvalidCast(err) {
		t.Errorf("expected InvalidCast, got %v", err)
	}
	if _, err := omap.Lookup[string, int]("unknown"); !omap.IsKeyNotFound(err) {
		t.Errorf("expected KeyNotFound, got %v", err)
	}
}

func TestRegistryUnregister(t *testing.T) {
	m := omap.New[string, int](nil)
	defer m.Close()

	if err := omap.Register("gone", m); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if !omap.Unregister("gone") {
		t.Error("Unregister of a registered name returned false")
	}
	if omap.Unregister("gone") {
		t.Error("Unregister of an absent name returned true")
	}
}
