// Package handle provides reference counting and handle tracking for shared
// module state.
//
// # Reference Counting
//
// A Ref counts live references to one shared value and serializes access to
// it. All operations take the same lock, so a clone, a release, and an
// exclusive mutation observe each other in a single total order:
//
//	ref := handle.NewRef()        // count 1
//	ref.Clone()                   // count 2
//
//	// Runs only while count == 1.
//	ok := ref.Exclusive(func() { state.name = "new" })
//
//	// The last release tears down under the lock.
//	ref.Release(func() { state.compiled.Close(ctx) })
//
// Exclusive is the mutation gate: it refuses to run its closure while more
// than one reference is alive, which is how shared state stays immutable to
// every holder except a sole owner.
//
// # Registry
//
// A Registry issues integer IDs for live values and notifies observers as
// entries come and go:
//
//	reg := handle.NewRegistry[*Thing]()
//	id := reg.Add(thing)
//	thing, ok := reg.Get(id)
//	reg.Remove(id)
//
// ID 0 is never issued. IDs recycle through a free list, so a removed ID may
// be reissued later; holders must treat removal as the end of an ID's life.
package handle
