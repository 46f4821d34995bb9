package ffi

/*
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unsafe"
)

// SymbolIndex is the space-delimited list of providers a library exports.
// Its C copy is allocated once and lives as long as the library.
type SymbolIndex struct {
	names []string
	text  string

	once sync.Once
	ptr  unsafe.Pointer
}

// NewSymbolIndex validates names and joins them with single spaces.
func NewSymbolIndex(names ...string) (*SymbolIndex, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("symbol index: no symbols")
	}
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if err := validSymbol(name); err != nil {
			return nil, fmt.Errorf("symbol index: %w", err)
		}
		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("symbol index: duplicate symbol %q", name)
		}
		seen[name] = struct{}{}
	}
	return &SymbolIndex{
		names: append([]string(nil), names...),
		text:  strings.Join(names, " "),
	}, nil
}

// MustSymbolIndex is NewSymbolIndex for package-level declarations.
func MustSymbolIndex(names ...string) *SymbolIndex {
	idx, err := NewSymbolIndex(names...)
	if err != nil {
		panic(err)
	}
	return idx
}

func validSymbol(name string) error {
	if name == "" {
		return fmt.Errorf("empty symbol")
	}
	for _, r := range name {
		if r > unicode.MaxASCII || unicode.IsSpace(r) || unicode.IsControl(r) {
			return fmt.Errorf("invalid symbol %q", name)
		}
	}
	return nil
}

func (s *SymbolIndex) String() string {
	return s.text
}

func (s *SymbolIndex) Names() []string {
	return append([]string(nil), s.names...)
}

// Pointer returns the NUL-terminated C copy of the index.
func (s *SymbolIndex) Pointer() unsafe.Pointer {
	s.once.Do(func() {
		s.ptr = unsafe.Pointer(C.CString(s.text))
	})
	return s.ptr
}
