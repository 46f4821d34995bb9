// Package provider maps exported symbol names to the queries behind them.
package provider

import (
	"fmt"
	"log/slog"

	"github.com/thiagokokada/promptns/internal/ffi"
)

// Request carries everything a provider may depend on. Dir replaces any
// reliance on the process working directory.
type Request struct {
	Dir  string
	Args ffi.Arguments
}

// Func computes an optional text value.
type Func func(Request) (string, error)

type Provider struct {
	Name string
	Func Func
}

// Namespace is an ordered, immutable set of providers.
type Namespace struct {
	name      string
	providers []Provider
	byName    map[string]Func
}

func NewNamespace(name string, providers ...Provider) (*Namespace, error) {
	ns := &Namespace{
		name:      name,
		providers: append([]Provider(nil), providers...),
		byName:    make(map[string]Func, len(providers)),
	}
	for _, p := range providers {
		if p.Func == nil {
			return nil, fmt.Errorf("namespace %s: provider %q has no function", name, p.Name)
		}
		if _, ok := ns.byName[p.Name]; ok {
			return nil, fmt.Errorf("namespace %s: duplicate provider %q", name, p.Name)
		}
		ns.byName[p.Name] = p.Func
	}
	return ns, nil
}

func mustNamespace(name string, providers ...Provider) *Namespace {
	ns, err := NewNamespace(name, providers...)
	if err != nil {
		panic(err)
	}
	return ns
}

func (n *Namespace) Name() string {
	return n.name
}

// Names returns provider names in registration order.
func (n *Namespace) Names() []string {
	names := make([]string, 0, len(n.providers))
	for _, p := range n.providers {
		names = append(names, p.Name)
	}
	return names
}

func (n *Namespace) Lookup(name string) (Func, bool) {
	fn, ok := n.byName[name]
	return fn, ok
}

// Call runs a provider and folds every failure into "no value".
func (n *Namespace) Call(name string, req Request) (string, bool) {
	fn, ok := n.byName[name]
	if !ok {
		slog.Debug("unknown provider", slog.String("namespace", n.name), slog.String("provider", name))
		return "", false
	}
	if req.Args == nil {
		req.Args = ffi.NoArgs{}
	}
	value, err := fn(req)
	if err != nil {
		slog.Debug("provider returned no value",
			slog.String("namespace", n.name),
			slog.String("provider", name),
			slog.String("dir", req.Dir),
			slog.Any("error", err),
		)
		return "", false
	}
	return value, true
}
