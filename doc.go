// Package wasmembed provides an embedding layer for compiled WebAssembly
// modules with shared-ownership handles and controlled module renaming.
//
// A compiled module is immutable except for its optional human-readable
// name. Handles to a module are reference counted: cloning a handle
// increases sharing, and the name may only be changed through a handle
// that is provably the sole owner at that moment. Every other sharer is
// therefore guaranteed to never observe an identity change on an object
// it believes is immutable.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	wasmembed/           Root package with the ByteVec boundary buffer
//	├── store/           Module lifetime, handles, name access/mutation
//	├── engine/          Low-level wazero integration
//	├── handle/          Reference counting and the live-object registry
//	├── wasm/            Binary-level name section decoding and rewriting
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Compile a module and rename it:
//
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
//	if mod.SetName(wasmembed.NewByteVecString("calculator")) {
//	    fmt.Println(mod.Name().String()) // "calculator"
//	}
//
// # Ownership Model
//
// ByteVec values returned by the library are fresh copies owned by the
// caller; buffers passed in remain owned by the caller and are copied
// on entry. Module handles returned by Store.Compile and Module.Clone
// must each be released with Close. SetName succeeds only while the
// calling handle is the sole live reference to the module; Clone the
// handle and the rename is refused until the clone is closed again.
//
// # Thread Safety
//
// Store and Module are safe for concurrent use. Name reads may run
// concurrently; a rename is atomic with respect to Clone and Close, so
// readers always observe a complete former or current name, never a
// mix.
package wasmembed
