package handle

import "sync"

// Ref is a reference count over a shared value, guarded by a single lock so
// that counting and access to the guarded value are linearizable: a clone, a
// release, and an exclusive mutation can never interleave. The zero value is
// unusable; construct with NewRef.
type Ref struct {
	mu    sync.RWMutex
	count uint32
	alive bool
}

// NewRef creates a Ref holding one reference.
func NewRef() *Ref {
	return &Ref{count: 1, alive: true}
}

// Clone adds a reference. It reports false when the count has already
// dropped to zero.
func (r *Ref) Clone() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.alive {
		return false
	}
	r.count++
	return true
}

// Release removes a reference. When the final reference goes, onLast runs
// while the lock is still held and the Ref is marked dead. Release reports
// whether this call released the final reference; releasing a dead Ref is a
// no-op. onLast must not call back into r.
func (r *Ref) Release(onLast func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.alive {
		return false
	}
	r.count--
	if r.count > 0 {
		return false
	}
	r.alive = false
	if onLast != nil {
		onLast()
	}
	return true
}

// Exclusive runs fn while holding the lock, but only when this is the sole
// live reference. It reports whether fn ran. fn must not call back into r.
func (r *Ref) Exclusive(fn func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.alive || r.count != 1 {
		return false
	}
	fn()
	return true
}

// Invalidate tears the Ref down regardless of the reference count: fn runs
// under the lock, the count drops to zero, and every outstanding reference
// goes dead. It reports false when the Ref was already dead. fn must not
// call back into r.
func (r *Ref) Invalidate(fn func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.alive {
		return false
	}
	r.alive = false
	r.count = 0
	if fn != nil {
		fn()
	}
	return true
}

// Read runs fn under the read lock while the Ref is alive, reporting whether
// fn ran. fn must not mutate the guarded value or call back into r.
func (r *Ref) Read(fn func()) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.alive {
		return false
	}
	fn()
	return true
}

// Count returns the current reference count. It is a snapshot; the count may
// change before the caller acts on it.
func (r *Ref) Count() uint32 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Alive reports whether any references remain.
func (r *Ref) Alive() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.alive
}
