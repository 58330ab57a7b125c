package handle

import (
	"sync"
)

// ID is an opaque reference to an entry in a Registry.
// ID 0 is reserved and always invalid.
type ID uint32

// EventType classifies registry lifecycle events.
type EventType uint8

const (
	EventAdded EventType = iota
	EventRemoved
)

// Event describes a registry lifecycle event.
type Event struct {
	Value any
	ID    ID
	Type  EventType
}

// Observer receives notifications about registry lifecycle events.
type Observer interface {
	OnHandleEvent(Event)
}

type entry[T any] struct {
	value T
	valid bool
}

// Registry tracks live values by ID with observer support. IDs are recycled
// through a free list, so a released ID may be reissued; holders must not use
// an ID after removing it.
type Registry[T any] struct {
	entries   []entry[T]
	freeList  []ID
	observers []Observer
	mu        sync.RWMutex
	closed    bool
}

// NewRegistry creates an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		entries:  make([]entry[T], 0, 16),
		freeList: make([]ID, 0, 8),
	}
}

// Add stores a value and returns its ID, or 0 when the registry is closed.
func (r *Registry[T]) Add(value T) ID {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return 0
	}

	e := entry[T]{value: value, valid: true}

	var id ID
	if len(r.freeList) > 0 {
		id = r.freeList[len(r.freeList)-1]
		r.freeList = r.freeList[:len(r.freeList)-1]
		r.entries[id-1] = e
	} else {
		r.entries = append(r.entries, e)
		id = ID(len(r.entries))
	}
	r.mu.Unlock()

	r.notify(Event{Type: EventAdded, ID: id, Value: value})
	return id
}

// Get retrieves a value by ID.
func (r *Registry[T]) Get(id ID) (T, bool) {
	var zero T
	if id == 0 {
		return zero, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := int(id) - 1
	if idx >= len(r.entries) || !r.entries[idx].valid {
		return zero, false
	}
	return r.entries[idx].value, true
}

// Remove drops an entry and returns its value. The ID returns to the free
// list and may be reissued by a later Add.
func (r *Registry[T]) Remove(id ID) (T, bool) {
	var zero T
	if id == 0 {
		return zero, false
	}

	r.mu.Lock()
	idx := int(id) - 1
	if idx >= len(r.entries) || !r.entries[idx].valid {
		r.mu.Unlock()
		return zero, false
	}

	value := r.entries[idx].value
	r.entries[idx] = entry[T]{}
	r.freeList = append(r.freeList, id)
	r.mu.Unlock()

	r.notify(Event{Type: EventRemoved, ID: id, Value: value})
	return value, true
}

// Len returns the number of live entries.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, e := range r.entries {
		if e.valid {
			count++
		}
	}
	return count
}

// Each calls fn for every live entry until fn returns false. fn must not
// call back into the registry; callers that mutate during iteration collect
// IDs first and act after.
func (r *Registry[T]) Each(fn func(ID, T) bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i, e := range r.entries {
		if e.valid {
			if !fn(ID(i+1), e.value) {
				break
			}
		}
	}
}

// Subscribe adds an observer for lifecycle events.
func (r *Registry[T]) Subscribe(o Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, o)
}

// Unsubscribe removes an observer.
func (r *Registry[T]) Unsubscribe(o Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, obs := range r.observers {
		if obs == o {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}

// Close invalidates all entries and stops accepting new ones. Values still
// registered are discarded without notification; callers that need teardown
// iterate with Each and remove entries first.
func (r *Registry[T]) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	r.entries = nil
	r.freeList = nil
	return nil
}

func (r *Registry[T]) notify(e Event) {
	r.mu.RLock()
	observers := r.observers
	r.mu.RUnlock()

	for _, o := range observers {
		o.OnHandleEvent(e)
	}
}
