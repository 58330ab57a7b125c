// Package store provides the high-level API for holding compiled modules
// and working with their names.
//
// # Quick Start
//
//	ctx := context.Background()
//	st, err := store.New(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer st.Close(ctx)
//
//	mod, err := st.Compile(ctx, wasmBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer mod.Close(ctx)
//
//	// Read the name from the binary's name section
//	name := mod.Name()
//	fmt.Println(name.String())
//
//	// Rename; succeeds only while this is the sole handle
//	ok := mod.SetName(wasmembed.NewByteVecString("calculator"))
//
//	// Serialize with the current name spliced in
//	out, err := mod.Bytes()
//
// # Handles and Sharing
//
// Compile returns the first handle to a module; Clone creates more. All
// handles see the same module, including its name:
//
//	other := mod.Clone()
//	other.Name() // same as mod.Name()
//
// Renames are exclusive: SetName fails while more than one handle is alive.
// Once every other handle closes, the survivor may rename again. SetName
// reports failure the same way for a shared module, a closed handle, and an
// invalid name; callers that need the distinction must track it themselves.
//
// # Lifecycle
//
// Each handle is closed independently; the compiled module is torn down when
// the last one goes. Operations on a closed handle are inert: Name returns
// the absent vector, SetName returns false, Clone returns nil. Store.Close
// force-closes any handles still open.
//
// # Thread Safety
//
// Store and Module are safe for concurrent use. Name reads, renames, clones,
// and closes of one module are linearizable: each rename either sees sole
// ownership and wins, or sees sharing and leaves no trace.
package store
