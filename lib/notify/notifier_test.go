package notify

import (
	"testing"
)

func addEvent(key string, value int) Event[string, int] {
	return Event[string, int]{
		Action:  ActionAdd,
		NewItem: &Entry[string, int]{Key: key, Value: value},
	}
}

func TestNotifyDeliversInRegistrationOrder(t *testing.T) {
	n := NewNotifier[string, int](false)

	var order []string
	n.Subscribe(func(e Event[string, int]) { order = append(order, "first") })
	n.Subscribe(func(e Event[string, int]) { order = append(order, "second") })
	n.Subscribe(func(e Event[string, int]) { order = append(order, "third") })

	n.Notify(addEvent("a", 1), 1)

	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("expected %d invocations, got %d", len(want), len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("invocation %d: expected %s, got %s", i, want[i], order[i])
		}
	}
}

func TestCountObserverFiresBeforeEvent(t *testing.T) {
	n := NewNotifier[string, int](false)

	var sequence []string
	n.SubscribeCount(func(count int) {
		sequence = append(sequence, "count")
		if count != 5 {
			t.Errorf("expected count 5, got %d", count)
		}
	})
	n.Subscribe(func(e Event[string, int]) {
		sequence = append(sequence, "event")
	})

	n.Notify(addEvent("a", 1), 5)

	if len(sequence) != 2 || sequence[0] != "count" || sequence[1] != "event" {
		t.Errorf("expected [count event], got %v", sequence)
	}
}

func TestReplaceSkipsCountObserver(t *testing.T) {
	n := NewNotifier[string, int](false)

	countFired := false
	n.SubscribeCount(func(int) { countFired = true })

	n.Notify(Event[string, int]{
		Action:  ActionReplace,
		NewItem: &Entry[string, int]{Key: "a", Value: 2},
		OldItem: &Entry[string, int]{Key: "a", Value: 1},
	}, 1)

	if countFired {
		t.Error("Replace must not fire the count observer")
	}
}

func TestSuppressionCoalescesToSingleReset(t *testing.T) {
	n := NewNotifier[string, int](true)

	var events []Event[string, int]
	n.Subscribe(func(e Event[string, int]) { events = append(events, e) })

	n.SetSuppressed(true, 0)
	for i := 0; i < 10; i++ {
		n.Notify(addEvent("k", i), i+1)
	}
	n.SetSuppressed(false, 10)

	if len(events) != 1 {
		t.Fatalf("expected exactly 1 event, got %d", len(events))
	}
	if events[0].Action != ActionReset {
		t.Errorf("expected Reset, got %s", events[0].Action)
	}
}

func TestSuppressionSingleMutationStillResets(t *testing.T) {
	n := NewNotifier[string, int](true)

	var events []Event[string, int]
	n.Subscribe(func(e Event[string, int]) { events = append(events, e) })

	n.SetSuppressed(true, 1)
	n.Notify(Event[string, int]{
		Action:  ActionRemove,
		OldItem: &Entry[string, int]{Key: "a", Value: 1},
	}, 0)
	n.SetSuppressed(false, 0)

	if len(events) != 1 || events[0].Action != ActionReset {
		t.Fatalf("expected a single Reset, got %v", events)
	}
}

func TestSuppressionCleanTogglesSilently(t *testing.T) {
	n := NewNotifier[string, int](true)

	fired := false
	n.Subscribe(func(Event[string, int]) { fired = true })
	n.SubscribeCount(func(int) { fired = true })

	n.SetSuppressed(true, 0)
	n.SetSuppressed(false, 0)

	if fired {
		t.Error("toggling suppression without mutations must not notify")
	}
	if n.Suppressed() {
		t.Error("notifier still reports suppressed")
	}
}

func TestPendingInvariantAfterResume(t *testing.T) {
	n := NewNotifier[string, int](true)

	n.SetSuppressed(true, 0)
	n.Notify(addEvent("a", 1), 1)
	n.Notify(addEvent("b", 2), 2)
	n.SetSuppressed(false, 2)

	// suppression off implies empty pending queue
	if n.pending.Len() != 0 {
		t.Errorf("pending queue not cleared, %d records left", n.pending.Len())
	}
	if n.state != stateNormal {
		t.Errorf("expected normal state, got %d", n.state)
	}
}

func TestLeftoverPendingDegradesEventToReset(t *testing.T) {
	n := NewNotifier[string, int](true)

	var events []Event[string, int]
	n.Subscribe(func(e Event[string, int]) { events = append(events, e) })

	// Force the inconsistent situation directly: a queued record while the
	// machine is back in normal state.
	n.mu.Lock()
	n.pending.PushBack(addEvent("stale", 0))
	n.mu.Unlock()

	n.Notify(addEvent("a", 1), 1)

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Action != ActionReset {
		t.Errorf("expected Reset, got %s", events[0].Action)
	}
	if n.pending.Len() != 0 {
		t.Error("pending queue must be discarded")
	}
}

func TestUnsubscribeRemovesObserver(t *testing.T) {
	n := NewNotifier[string, int](false)

	var got []string
	n.Subscribe(func(Event[string, int]) { got = append(got, "a") })
	unsubB := n.Subscribe(func(Event[string, int]) { got = append(got, "b") })
	n.Subscribe(func(Event[string, int]) { got = append(got, "c") })

	unsubB()
	n.Notify(addEvent("k", 1), 1)

	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("expected [a c], got %v", got)
	}

	// removing twice is a no-op
	unsubB()
	if !n.HasObservers() {
		t.Error("remaining observers lost")
	}
}

func TestObserverPanicIsContained(t *testing.T) {
	n := NewNotifier[string, int](false)

	secondRan := false
	n.Subscribe(func(Event[string, int]) { panic("bad observer") })
	n.Subscribe(func(Event[string, int]) { secondRan = true })

	// must not panic
	n.Notify(addEvent("a", 1), 1)

	if !secondRan {
		t.Error("panicking observer aborted delivery to later observers")
	}
}
