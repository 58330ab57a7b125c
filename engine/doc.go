// Package engine provides the wazero-backed compilation layer.
//
// This package wraps wazero for one purpose: turning core module binaries
// into validated wazero.CompiledModule artifacts. Modules are compiled but
// never instantiated; the compiled form carries the export metadata and
// validation guarantees the store layer needs without running guest code.
//
// # Usage
//
//	eng, err := engine.New(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close(ctx)
//
//	compiled, err := eng.Compile(ctx, wasmBytes)
//
// # Compilation Cache
//
// Repeated compilation of the same binaries can reuse an on-disk cache:
//
//	eng, err := engine.NewWithConfig(ctx, &engine.Config{
//	    CacheDir: "/var/cache/wasm-embed",
//	})
//
// The cache is closed together with the engine.
//
// # Known Limitations
//
// Component model binaries are rejected by Compile; this engine handles core
// modules only. Memory64 is not supported by the underlying wazero runtime
// (v1.10.1).
//
// # Thread Safety
//
// Engine is safe for concurrent use.
package engine
