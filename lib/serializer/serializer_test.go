package serializer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// byteSerializers lists all implementations that can carry a
// string-to-bytes state
var byteSerializers = map[string]func() ISerializer[string, []byte]{
	"JSON":   NewJSONSerializer[string, []byte],
	"GOB":    NewGOBSerializer[string, []byte],
	"Binary": NewBinarySerializer,
}

func testStates() []State[string, []byte] {
	return []State[string, []byte]{
		// empty store, tracking off
		{Entries: map[string][]byte{}},

		// empty store, tracking on
		{Entries: map[string][]byte{}, TrackChanges: true},

		// regular contents
		{
			Entries: map[string][]byte{
				"name":  []byte("observable"),
				"count": []byte{0, 1, 2, 3},
				"empty": {},
			},
			TrackChanges: true,
		},
	}
}

func TestSerializerRoundTrip(t *testing.T) {
	for name, factory := range byteSerializers {
		t.Run(name, func(t *testing.T) {
			s := factory()
			for i, state := range testStates() {
				data, err := s.Serialize(state)
				if err != nil {
					t.Fatalf("state %d: serialize failed: %v", i, err)
				}

				var got State[string, []byte]
				if err := s.Deserialize(data, &got); err != nil {
					t.Fatalf("state %d: deserialize failed: %v", i, err)
				}

				if got.TrackChanges != state.TrackChanges {
					t.Errorf("state %d: track_changes %v, want %v", i, got.TrackChanges, state.TrackChanges)
				}
				if len(got.Entries) != len(state.Entries) {
					t.Errorf("state %d: %d entries, want %d", i, len(got.Entries), len(state.Entries))
				}
				if diff := cmp.Diff(state.Entries, got.Entries, cmpopts.EquateEmpty()); diff != "" {
					t.Errorf("state %d: entries mismatch (-want +got):\n%s", i, diff)
				}
			}
		})
	}
}

func TestGOBSerializerStructValues(t *testing.T) {
	type cell struct {
		Row, Col int
		Text     string
	}

	s := NewGOBSerializer[int, cell]()
	state := State[int, cell]{
		Entries: map[int]cell{
			1: {Row: 0, Col: 0, Text: "origin"},
			2: {Row: 3, Col: 7, Text: "x"},
		},
		TrackChanges: true,
	}

	data, err := s.Serialize(state)
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}

	var got State[int, cell]
	if err := s.Deserialize(data, &got); err != nil {
		t.Fatalf("deserialize failed: %v", err)
	}
	if diff := cmp.Diff(state, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestBinarySerializerRejectsGarbage(t *testing.T) {
	s := NewBinarySerializer()

	var state State[string, []byte]
	if err := s.Deserialize([]byte("definitely not a map"), &state); err == nil {
		t.Error("expected an error for garbage input")
	}
	if err := s.Deserialize(nil, &state); err == nil {
		t.Error("expected an error for empty input")
	}
}

func TestBinarySerializerTruncatedInput(t *testing.T) {
	s := NewBinarySerializer()

	data, err := s.Serialize(State[string, []byte]{
		Entries:      map[string][]byte{"key": []byte("value")},
		TrackChanges: true,
	})
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}

	for cut := 1; cut < len(data); cut++ {
		var state State[string, []byte]
		if err := s.Deserialize(data[:cut], &state); err == nil {
			t.Errorf("truncation at %d bytes accepted", cut)
		}
	}
}
