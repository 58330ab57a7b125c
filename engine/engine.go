package engine

import (
	"context"

	"github.com/tetratelabs/wazero"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-embed/errors"
	"github.com/wippyai/wasm-embed/wasm"
)

// Engine wraps a wazero runtime used purely for compilation. Instances are
// never created; compiled modules serve as validated, introspectable
// artifacts for the store layer.
type Engine struct {
	runtime wazero.Runtime
	cache   wazero.CompilationCache
}

// Config holds configuration for engine creation.
type Config struct {
	// CacheDir enables an on-disk compilation cache shared across engines
	// and process restarts. Empty means no cache.
	CacheDir string

	// MemoryLimitPages caps memory per module in 64KB pages.
	// 0 means the wazero default (65536 pages = 4GB).
	// 256 = 16MB, 1024 = 64MB, 4096 = 256MB
	MemoryLimitPages uint32
}

// DefaultConfig returns a Config with all defaults: no compilation cache and
// the wazero memory ceiling.
func DefaultConfig() *Config {
	return &Config{}
}

// New creates an engine with default configuration.
func New(ctx context.Context) (*Engine, error) {
	return NewWithConfig(ctx, nil)
}

// NewWithConfig creates an engine with custom configuration. A nil cfg is
// equivalent to DefaultConfig().
func NewWithConfig(ctx context.Context, cfg *Config) (*Engine, error) {
	runtimeCfg := wazero.NewRuntimeConfig()

	var cache wazero.CompilationCache
	if cfg != nil {
		if cfg.MemoryLimitPages > 0 {
			runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
		}
		if cfg.CacheDir != "" {
			var err error
			cache, err = wazero.NewCompilationCacheWithDir(cfg.CacheDir)
			if err != nil {
				return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "open compilation cache")
			}
			runtimeCfg = runtimeCfg.WithCompilationCache(cache)
			Logger().Debug("compilation cache enabled", zap.String("dir", cfg.CacheDir))
		}
	}

	return &Engine{
		runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		cache:   cache,
	}, nil
}

// Compile validates and compiles a core module binary. Component model
// binaries are rejected up front; everything else is wazero's verdict.
func (e *Engine) Compile(ctx context.Context, wasmBytes []byte) (wazero.CompiledModule, error) {
	if wasm.IsComponent(wasmBytes) {
		return nil, errors.Unsupported(errors.PhaseLoad, "component model binaries")
	}

	compiled, err := e.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, errors.Load("compile module", err)
	}

	Logger().Debug("module compiled",
		zap.Int("size", len(wasmBytes)),
		zap.String("name", compiled.Name()))
	return compiled, nil
}

// Close releases the runtime and the compilation cache, if any.
func (e *Engine) Close(ctx context.Context) error {
	err := e.runtime.Close(ctx)
	if e.cache != nil {
		err = multierr.Append(err, e.cache.Close(ctx))
	}
	return err
}
