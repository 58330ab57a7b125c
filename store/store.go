package store

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-embed/engine"
	"github.com/wippyai/wasm-embed/errors"
	"github.com/wippyai/wasm-embed/handle"
	"github.com/wippyai/wasm-embed/wasm"
)

// Store compiles modules and tracks every live handle to them. Handles
// remain valid until closed individually or force-closed by Store.Close.
type Store struct {
	engine    *engine.Engine
	modules   *handle.Registry[*Module]
	ownEngine bool
}

// New creates a store with its own engine. The engine is closed together
// with the store.
func New(ctx context.Context) (*Store, error) {
	eng, err := engine.New(ctx)
	if err != nil {
		return nil, errors.Load("create engine", err)
	}
	s := newStore(eng)
	s.ownEngine = true
	return s, nil
}

// NewWithEngine creates a store on a caller-owned engine. The caller closes
// the engine after the store.
func NewWithEngine(eng *engine.Engine) *Store {
	return newStore(eng)
}

func newStore(eng *engine.Engine) *Store {
	s := &Store{
		engine:  eng,
		modules: handle.NewRegistry[*Module](),
	}
	s.modules.Subscribe(lifecycleObserver{})
	return s
}

// Compile validates and compiles a module binary, returning the first handle
// to it. The store copies the input; the caller keeps ownership of wasmBytes.
//
// The module name is read from the binary's name section. A malformed name
// section does not fail the load: it is dropped with a warning and the
// module starts unnamed, while the module proper still has to pass
// compilation.
func (s *Store) Compile(ctx context.Context, wasmBytes []byte) (*Module, error) {
	raw := make([]byte, len(wasmBytes))
	copy(raw, wasmBytes)

	name, hasName, nameErr := wasm.ModuleName(raw)
	if nameErr != nil {
		stripped, err := wasm.StripModuleName(raw)
		if err != nil {
			// Not a name section problem; the binary itself is broken.
			return nil, err
		}
		Logger().Warn("malformed name section dropped", zap.Error(nameErr))
		raw = stripped
		name, hasName = "", false
	}

	compiled, err := s.engine.Compile(ctx, raw)
	if err != nil {
		return nil, err
	}

	st := &moduleState{
		raw:      raw,
		name:     name,
		hasName:  hasName,
		compiled: compiled,
	}
	m := &Module{store: s, st: st, ref: handle.NewRef()}
	m.id = s.modules.Add(m)
	if m.id == 0 {
		err := compiled.Close(ctx)
		return nil, multierr.Append(errors.Closed("store"), err)
	}

	Logger().Debug("module compiled",
		zap.Uint32("id", uint32(m.id)),
		zap.Bool("named", hasName),
		zap.String("name", name),
		zap.Int("size", len(raw)))
	return m, nil
}

// Validate compiles a binary and discards the result, reporting only whether
// it is a loadable module.
func (s *Store) Validate(ctx context.Context, wasmBytes []byte) error {
	compiled, err := s.engine.Compile(ctx, wasmBytes)
	if err != nil {
		return err
	}
	return compiled.Close(ctx)
}

// NumModules returns the number of live module handles.
func (s *Store) NumModules() int {
	return s.modules.Len()
}

// Close force-closes every live handle, then the registry, then an owned
// engine. Errors from individual teardowns are aggregated.
func (s *Store) Close(ctx context.Context) error {
	var leftover []*Module
	s.modules.Each(func(_ handle.ID, m *Module) bool {
		leftover = append(leftover, m)
		return true
	})

	if len(leftover) > 0 {
		Logger().Warn("store closed with live module handles",
			zap.Int("count", len(leftover)))
	}

	var err error
	for _, m := range leftover {
		err = multierr.Append(err, m.forceClose(ctx))
	}

	err = multierr.Append(err, s.modules.Close())
	if s.ownEngine {
		err = multierr.Append(err, s.engine.Close(ctx))
	}
	return err
}

// lifecycleObserver logs handle registry events.
type lifecycleObserver struct{}

func (lifecycleObserver) OnHandleEvent(e handle.Event) {
	switch e.Type {
	case handle.EventAdded:
		Logger().Debug("module handle added", zap.Uint32("id", uint32(e.ID)))
	case handle.EventRemoved:
		Logger().Debug("module handle removed", zap.Uint32("id", uint32(e.ID)))
	}
}
