package store

import (
	"context"
	"sort"
	"sync/atomic"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	wasmembed "github.com/wippyai/wasm-embed"
	"github.com/wippyai/wasm-embed/errors"
	"github.com/wippyai/wasm-embed/handle"
	"github.com/wippyai/wasm-embed/wasm"
)

// moduleState is the state shared by every handle of one module. Access goes
// through the owning handle.Ref, whose lock makes name reads, renames,
// clones, and releases observe each other in a single total order.
type moduleState struct {
	compiled wazero.CompiledModule
	raw      []byte
	name     string
	hasName  bool
}

// Module is one handle to a compiled module. Clone creates additional
// handles over the same module; the underlying state lives until the last
// handle closes. A closed handle turns inert: reads report absence and
// mutations report failure, never a fault.
type Module struct {
	store  *Store
	st     *moduleState
	ref    *handle.Ref
	id     handle.ID
	closed atomic.Bool
}

// ID returns this handle's registry ID. Each clone has its own.
func (m *Module) ID() handle.ID {
	return m.id
}

// Name returns the module's name. The result is absent when the module has
// no name or the handle is closed, and the explicit empty vector when the
// name was set to "". The returned vector is a copy owned by the caller;
// later renames do not affect it.
func (m *Module) Name() wasmembed.ByteVec {
	var vec wasmembed.ByteVec
	if m.closed.Load() {
		return vec
	}
	m.ref.Read(func() {
		if m.st.hasName {
			vec = wasmembed.NewByteVecString(m.st.name)
		}
	})
	return vec
}

// SetName renames the module and reports whether the rename happened. It
// fails when the name is absent or not valid UTF-8, when other handles to
// the same module are alive, or when this handle is closed. The caller
// cannot tell these apart from the result; all it learns is that the name
// did not change. On failure the module keeps its previous name unchanged.
//
// The exclusivity check and the write happen under one lock, so a rename
// cannot interleave with a clone, a close, or another rename.
func (m *Module) SetName(name wasmembed.ByteVec) bool {
	if err := m.rename(name); err != nil {
		Logger().Debug("rename rejected",
			zap.Uint32("id", uint32(m.id)),
			zap.Error(err))
		return false
	}
	return true
}

// rename carries the precise failure cause; SetName collapses it to the
// boundary bool.
func (m *Module) rename(name wasmembed.ByteVec) error {
	if m.closed.Load() {
		return errors.Closed("module handle")
	}

	text, ok := name.Text()
	if !ok {
		if name.IsNil() {
			return errors.InvalidInput(errors.PhaseRename, "absent name vector")
		}
		return errors.InvalidUTF8(errors.PhaseRename, name.Bytes())
	}

	renamed := m.ref.Exclusive(func() {
		m.st.name = text
		m.st.hasName = true
	})
	if !renamed {
		return errors.NotExclusive(m.ref.Count())
	}

	Logger().Debug("module renamed",
		zap.Uint32("id", uint32(m.id)),
		zap.String("name", text))
	return nil
}

// Clone returns a new handle to the same module, or nil when this handle is
// closed or the store no longer accepts handles. While more than one handle
// is alive the module's name is immutable.
func (m *Module) Clone() *Module {
	if m.closed.Load() {
		return nil
	}
	if !m.ref.Clone() {
		return nil
	}

	clone := &Module{store: m.store, st: m.st, ref: m.ref}
	clone.id = m.store.modules.Add(clone)
	if clone.id == 0 {
		m.ref.Release(func() {
			_ = m.st.compiled.Close(context.Background())
		})
		return nil
	}
	return clone
}

// Close releases this handle. The shared module is torn down when the last
// handle goes; closing an already-closed handle is a no-op.
func (m *Module) Close(ctx context.Context) error {
	if m.closed.Swap(true) {
		return nil
	}

	var err error
	m.ref.Release(func() {
		err = m.st.compiled.Close(ctx)
	})
	m.store.modules.Remove(m.id)
	return err
}

// forceClose tears down the shared module regardless of other handles.
// Store.Close uses it to reclaim modules left open at shutdown.
func (m *Module) forceClose(ctx context.Context) error {
	if m.closed.Swap(true) {
		return nil
	}

	var err error
	m.ref.Invalidate(func() {
		err = m.st.compiled.Close(ctx)
	})
	return err
}

// Bytes serializes the module with its current name patched into the name
// section. The rest of the binary is byte-identical to what was compiled.
func (m *Module) Bytes() ([]byte, error) {
	if m.closed.Load() {
		return nil, errors.Closed("module handle")
	}

	var out []byte
	var err error
	ok := m.ref.Read(func() {
		if m.st.hasName {
			out, err = wasm.SetModuleName(m.st.raw, m.st.name)
		} else {
			out, err = wasm.StripModuleName(m.st.raw)
		}
	})
	if !ok {
		return nil, errors.Closed("module handle")
	}
	return out, err
}

// ExportedFunctions returns the names of the module's exported functions,
// sorted. A closed handle returns nil.
func (m *Module) ExportedFunctions() []string {
	if m.closed.Load() {
		return nil
	}

	var names []string
	m.ref.Read(func() {
		defs := m.st.compiled.ExportedFunctions()
		names = make([]string, 0, len(defs))
		for name := range defs {
			names = append(names, name)
		}
	})
	sort.Strings(names)
	return names
}
