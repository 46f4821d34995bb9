// Package plugin is the glue between an exported library and its provider
// namespace: configuration, logging and result encoding.
package plugin

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"unsafe"

	"github.com/thiagokokada/promptns/internal/config"
	"github.com/thiagokokada/promptns/internal/ffi"
	"github.com/thiagokokada/promptns/internal/logging"
	"github.com/thiagokokada/promptns/internal/provider"
)

type Runtime struct {
	ns      *provider.Namespace
	symbols *ffi.SymbolIndex

	once sync.Once
	cfg  *config.Config

	// getwd is replaced in tests.
	getwd func() (string, error)
}

func New(ns *provider.Namespace) *Runtime {
	return &Runtime{
		ns:      ns,
		symbols: ffi.MustSymbolIndex(ns.Names()...),
		getwd:   os.Getwd,
	}
}

// NewEmbedded returns a Runtime for a Go program that already loaded its
// configuration and installed its logger.
func NewEmbedded(ns *provider.Namespace, cfg *config.Config) *Runtime {
	r := New(ns)
	r.once.Do(func() { r.cfg = cfg })
	return r
}

// Symbols returns the static C string listing the namespace's providers.
func (r *Runtime) Symbols() unsafe.Pointer {
	return r.symbols.Pointer()
}

func (r *Runtime) SymbolIndex() *ffi.SymbolIndex {
	return r.symbols
}

func (r *Runtime) init() {
	r.once.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			cfg = config.DefaultConfig()
		}
		// The handler keeps the log file open for the life of the library.
		_, logErr := logging.SetupLibrary(cfg)
		r.cfg = cfg
		if err != nil {
			slog.Warn("using default configuration", slog.Any("error", err))
		}
		if logErr != nil {
			slog.Warn("library logging disabled", slog.Any("error", logErr))
		}
		slog.Debug("provider library loaded",
			slog.String("namespace", r.ns.Name()),
			slog.String("symbols", r.symbols.String()),
		)
	})
}

// dir resolves the repository directory for one call.
func (r *Runtime) dir() (string, error) {
	if r.cfg != nil && r.cfg.Repo != "" {
		return r.cfg.Repo, nil
	}
	wd, err := r.getwd()
	if err != nil {
		return "", fmt.Errorf("working directory: %w", err)
	}
	return wd, nil
}

// Invoke runs a provider and encodes its outcome for the host. Provider
// panics are contained and reported as no value; argument contract
// violations happen before Invoke, in ffi.Consume.
func (r *Runtime) Invoke(name string, args ffi.Arguments) ffi.Result {
	r.init()
	dir, err := r.dir()
	if err != nil {
		slog.Debug("provider returned no value", slog.String("provider", name), slog.Any("error", err))
		return ffi.Absent()
	}
	return r.InvokeAt(dir, name, args)
}

// InvokeAt is Invoke against an explicit repository directory.
func (r *Runtime) InvokeAt(dir, name string, args ffi.Arguments) (res ffi.Result) {
	r.init()
	defer func() {
		if p := recover(); p != nil {
			slog.Error("provider panicked",
				slog.String("namespace", r.ns.Name()),
				slog.String("provider", name),
				slog.Any("panic", p),
			)
			res = ffi.Absent()
		}
	}()

	value, ok := r.ns.Call(name, provider.Request{Dir: dir, Args: args})
	return ffi.Encode(value, ok)
}

// InvokeRaw consumes a C argument record and invokes the provider with it.
func (r *Runtime) InvokeRaw(name string, raw ffi.RawArguments) ffi.Result {
	r.init()
	return r.Invoke(name, ffi.Consume(raw))
}
