package store

import (
	"context"
	"testing"

	"github.com/wippyai/wasm-embed/engine"
	"github.com/wippyai/wasm-embed/wasm"
)

// Minimal valid WASM module (no exports)
var minimalWASM = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
}

// WASM with add function export
var addWASM = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	// Type section: (i32, i32) -> i32
	0x01, 0x07, 0x01, 0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f,
	// Function section: func 0 uses type 0
	0x03, 0x02, 0x01, 0x00,
	// Export section: "add" -> func 0
	0x07, 0x07, 0x01, 0x03, 0x61, 0x64, 0x64, 0x00, 0x00,
	// Code section: local.get 0 + local.get 1 = i32.add
	0x0a, 0x09, 0x01, 0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6a, 0x0b,
}

// namedWASM returns a copy of data carrying name as its module name.
func namedWASM(t *testing.T, data []byte, name string) []byte {
	t.Helper()
	out, err := wasm.SetModuleName(data, name)
	if err != nil {
		t.Fatalf("SetModuleName error: %v", err)
	}
	return out
}

func TestStore_CompileAndClose(t *testing.T) {
	ctx := context.Background()

	st, err := New(ctx)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer st.Close(ctx)

	mod, err := st.Compile(ctx, minimalWASM)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if mod.ID() == 0 {
		t.Error("expected non-zero handle ID")
	}
	if st.NumModules() != 1 {
		t.Errorf("expected 1 module, got %d", st.NumModules())
	}

	if err := mod.Close(ctx); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if st.NumModules() != 0 {
		t.Errorf("expected 0 modules after close, got %d", st.NumModules())
	}
}

func TestStore_CompileInvalid(t *testing.T) {
	ctx := context.Background()

	st, err := New(ctx)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer st.Close(ctx)

	if _, err := st.Compile(ctx, []byte{0x01, 0x02, 0x03}); err == nil {
		t.Error("expected error for invalid binary")
	}
	if st.NumModules() != 0 {
		t.Error("failed compile should not register a handle")
	}
}

func TestStore_CompileNamed(t *testing.T) {
	ctx := context.Background()

	st, err := New(ctx)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer st.Close(ctx)

	mod, err := st.Compile(ctx, namedWASM(t, addWASM, "calculator"))
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	defer mod.Close(ctx)

	name := mod.Name()
	if name.IsNil() || name.String() != "calculator" {
		t.Errorf("expected name 'calculator', got %q (nil=%v)", name.String(), name.IsNil())
	}
}

func TestStore_CompileExplicitEmptyName(t *testing.T) {
	ctx := context.Background()

	st, err := New(ctx)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer st.Close(ctx)

	mod, err := st.Compile(ctx, namedWASM(t, minimalWASM, ""))
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	defer mod.Close(ctx)

	name := mod.Name()
	if name.IsNil() {
		t.Fatal("explicitly empty name should not read as absent")
	}
	if name.Len() != 0 {
		t.Errorf("expected zero-length name, got %q", name.String())
	}
}

func TestStore_CompileMalformedNameSection(t *testing.T) {
	ctx := context.Background()

	st, err := New(ctx)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer st.Close(ctx)

	// Custom section "name" whose body claims a 127-byte subsection.
	data := append([]byte{}, minimalWASM...)
	data = append(data, 0x00, 0x07, 0x04, 'n', 'a', 'm', 'e', 0x00, 0x7F)

	mod, err := st.Compile(ctx, data)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	defer mod.Close(ctx)

	if !mod.Name().IsNil() {
		t.Error("malformed name section should read as absent")
	}
}

func TestStore_CompileHugeNameMapCount(t *testing.T) {
	ctx := context.Background()

	st, err := New(ctx)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer st.Close(ctx)

	// Name section whose function-name map claims 0xFFFFFFFF entries in
	// five bytes. The claim must not survive to compilation, let alone
	// drive an allocation; the module loads nameless.
	data := append([]byte{}, minimalWASM...)
	data = append(data,
		0x00, 0x0C, 0x04, 'n', 'a', 'm', 'e',
		0x01, 0x05, 0xFF, 0xFF, 0xFF, 0xFF, 0x0F)

	mod, err := st.Compile(ctx, data)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	defer mod.Close(ctx)

	if !mod.Name().IsNil() {
		t.Error("unreadable name section should read as absent")
	}
	if !mod.SetName(nameVec("recovered")) {
		t.Error("module should stay renameable after the section is dropped")
	}
}

func TestStore_Validate(t *testing.T) {
	ctx := context.Background()

	st, err := New(ctx)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer st.Close(ctx)

	if err := st.Validate(ctx, addWASM); err != nil {
		t.Errorf("Validate error on valid module: %v", err)
	}
	if err := st.Validate(ctx, []byte{0xFF}); err == nil {
		t.Error("expected error for invalid module")
	}
	if st.NumModules() != 0 {
		t.Error("Validate should not register handles")
	}
}

func TestStore_CloseForcesHandles(t *testing.T) {
	ctx := context.Background()

	st, err := New(ctx)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	mod, err := st.Compile(ctx, minimalWASM)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	clone := mod.Clone()
	if clone == nil {
		t.Fatal("Clone returned nil")
	}

	if err := st.Close(ctx); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	if !mod.Name().IsNil() {
		t.Error("handle should be inert after store close")
	}
	if mod.SetName(nameVec("late")) {
		t.Error("rename should fail after store close")
	}
	if clone.Clone() != nil {
		t.Error("clone should fail after store close")
	}
	if _, err := st.Compile(ctx, minimalWASM); err == nil {
		t.Error("expected error compiling on a closed store")
	}
}

func TestStore_NewWithEngine(t *testing.T) {
	ctx := context.Background()

	eng, err := engine.New(ctx)
	if err != nil {
		t.Fatalf("engine.New error: %v", err)
	}
	defer eng.Close(ctx)

	st := NewWithEngine(eng)
	mod, err := st.Compile(ctx, addWASM)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	mod.Close(ctx)

	if err := st.Close(ctx); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	// The engine stays usable; the store merely borrowed it.
	compiled, err := eng.Compile(ctx, minimalWASM)
	if err != nil {
		t.Fatalf("engine unusable after store close: %v", err)
	}
	compiled.Close(ctx)
}
