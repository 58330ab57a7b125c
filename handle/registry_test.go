package handle

import (
	"testing"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnHandleEvent(e Event) {
	o.events = append(o.events, e)
}

func TestRegistry_Basic(t *testing.T) {
	reg := NewRegistry[string]()

	id := reg.Add("test")
	if id == 0 {
		t.Fatal("Expected non-zero ID")
	}

	val, ok := reg.Get(id)
	if !ok {
		t.Fatal("Get failed")
	}
	if val != "test" {
		t.Fatalf("Expected 'test', got %q", val)
	}

	val, ok = reg.Remove(id)
	if !ok {
		t.Fatal("Remove failed")
	}
	if val != "test" {
		t.Fatalf("Expected 'test', got %q", val)
	}

	if reg.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Remove")
	}
	if _, ok := reg.Get(id); ok {
		t.Fatal("Get succeeded on removed ID")
	}
}

func TestRegistry_InvalidID(t *testing.T) {
	reg := NewRegistry[string]()

	if _, ok := reg.Get(0); ok {
		t.Fatal("Get(0) should fail")
	}
	if _, ok := reg.Remove(0); ok {
		t.Fatal("Remove(0) should fail")
	}
	if _, ok := reg.Get(42); ok {
		t.Fatal("Get on unknown ID should fail")
	}
}

func TestRegistry_IDRecycling(t *testing.T) {
	reg := NewRegistry[string]()

	a := reg.Add("a")
	b := reg.Add("b")
	reg.Remove(a)

	c := reg.Add("c")
	if c != a {
		t.Fatalf("Expected recycled ID %d, got %d", a, c)
	}

	val, ok := reg.Get(c)
	if !ok || val != "c" {
		t.Fatalf("Expected 'c' at recycled ID, got %q (ok=%v)", val, ok)
	}
	if val, _ := reg.Get(b); val != "b" {
		t.Fatal("Unrelated entry disturbed by recycling")
	}
}

func TestRegistry_Observer(t *testing.T) {
	reg := NewRegistry[string]()
	obs := &testObserver{}
	reg.Subscribe(obs)

	id := reg.Add("test")
	if len(obs.events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(obs.events))
	}
	if obs.events[0].Type != EventAdded || obs.events[0].ID != id {
		t.Fatalf("Unexpected event %+v", obs.events[0])
	}

	reg.Remove(id)
	if len(obs.events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(obs.events))
	}
	if obs.events[1].Type != EventRemoved {
		t.Fatal("Expected EventRemoved")
	}
	if obs.events[1].Value != "test" {
		t.Fatalf("Expected removed value in event, got %v", obs.events[1].Value)
	}

	reg.Unsubscribe(obs)
	reg.Add("after")
	if len(obs.events) != 2 {
		t.Fatal("Received events after Unsubscribe")
	}
}

func TestRegistry_Each(t *testing.T) {
	reg := NewRegistry[int]()
	reg.Add(10)
	id := reg.Add(20)
	reg.Add(30)
	reg.Remove(id)

	sum := 0
	reg.Each(func(_ ID, v int) bool {
		sum += v
		return true
	})
	if sum != 40 {
		t.Fatalf("Expected sum 40 over live entries, got %d", sum)
	}

	visits := 0
	reg.Each(func(ID, int) bool {
		visits++
		return false
	})
	if visits != 1 {
		t.Fatalf("Expected early stop after 1 visit, got %d", visits)
	}
}

func TestRegistry_Closed(t *testing.T) {
	reg := NewRegistry[string]()
	id := reg.Add("orphan")

	if err := reg.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if reg.Add("late") != 0 {
		t.Fatal("Add should return 0 on closed registry")
	}
	if _, ok := reg.Get(id); ok {
		t.Fatal("Get succeeded after Close")
	}
	if reg.Len() != 0 {
		t.Fatal("Expected empty registry after Close")
	}
	if err := reg.Close(); err != nil {
		t.Fatalf("Second Close: %v", err)
	}
}
