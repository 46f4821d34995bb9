package ffi

/*
#cgo CFLAGS: -I${SRCDIR}/include
#include <stdlib.h>
#include "provider.h"
*/
import "C"

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
	"unsafe"
)

// RawArguments mirrors provider_args and provider_args_v2. Pointers refer
// to C memory.
type RawArguments struct {
	Key      unsafe.Pointer // char *
	KeyArray unsafe.Pointer // char **
	Args     unsafe.Pointer // char **
	KeyLen   uintptr
	ArgsLen  uintptr
	Kind     Kind
	// Explicit is set for records read from a provider_args_v2, whose Kind
	// must name a variant.
	Explicit bool
}

// RawFromC reads the provider_args struct p points to. The variant is
// inferred from the key pointers.
func RawFromC(p unsafe.Pointer) RawArguments {
	c := (*C.provider_args)(p)
	return RawArguments{
		Key:      unsafe.Pointer(c.key_ptr),
		KeyArray: unsafe.Pointer(c.key_array_ptr),
		Args:     unsafe.Pointer(c.args_ptr),
		KeyLen:   uintptr(c.key_len),
		ArgsLen:  uintptr(c.args_len),
		Kind:     KindInfer,
	}
}

// RawFromCV2 reads the provider_args_v2 struct p points to.
func RawFromCV2(p unsafe.Pointer) RawArguments {
	c := (*C.provider_args_v2)(p)
	return RawArguments{
		Key:      unsafe.Pointer(c.key_ptr),
		KeyArray: unsafe.Pointer(c.key_array_ptr),
		Args:     unsafe.Pointer(c.args_ptr),
		KeyLen:   uintptr(c.key_len),
		ArgsLen:  uintptr(c.args_len),
		Kind:     Kind(c.kind),
		Explicit: true,
	}
}

// ToC writes r into the provider_args struct p points to. Kind is not part
// of that layout and is dropped.
func (r RawArguments) ToC(p unsafe.Pointer) {
	c := (*C.provider_args)(p)
	c.key_ptr = (*C.char)(r.Key)
	c.key_array_ptr = (**C.char)(r.KeyArray)
	c.args_ptr = (**C.char)(r.Args)
	c.key_len = C.size_t(r.KeyLen)
	c.args_len = C.size_t(r.ArgsLen)
}

// ToCV2 writes r into the provider_args_v2 struct p points to.
func (r RawArguments) ToCV2(p unsafe.Pointer) {
	c := (*C.provider_args_v2)(p)
	c.key_ptr = (*C.char)(r.Key)
	c.key_array_ptr = (**C.char)(r.KeyArray)
	c.args_ptr = (**C.char)(r.Args)
	c.key_len = C.size_t(r.KeyLen)
	c.args_len = C.size_t(r.ArgsLen)
	c.kind = C.uint8_t(r.Kind)
}

// variant applies the selection rules: the kind must be defined, an empty key
// list always means no arguments, then an explicit kind wins and otherwise
// pointer nullness decides.
func (r RawArguments) variant() Kind {
	switch {
	case r.Kind > KindArray, r.Explicit && r.Kind == KindInfer:
		panic(&ContractError{Kind: UnknownKind, Field: "kind", Index: -1})
	case r.KeyLen == 0:
		return KindNone
	case r.Kind == KindNone:
		panic(&ContractError{Kind: ConflictingKind, Field: "kind", Index: -1})
	case r.Kind != KindInfer:
		return r.Kind
	case r.Key != nil:
		return KindString
	case r.KeyArray != nil:
		return KindArray
	default:
		slog.Warn("argument record declares keys without a key pointer",
			slog.Uint64("key_len", uint64(r.KeyLen)),
			slog.Uint64("args_len", uint64(r.ArgsLen)),
		)
		return KindNone
	}
}

// Consume converts a record into typed arguments and frees every buffer it
// references. The record must not be used again afterwards.
//
// Buffers are copied and validated before anything is freed, so a contract
// violation leaves the caller's memory untouched. Violations panic with a
// *ContractError.
func Consume(raw RawArguments) Arguments {
	kind := raw.variant()
	if kind == KindNone {
		return NoArgs{}
	}
	if raw.Key != nil && raw.KeyArray != nil {
		// Only the selected key buffer is reclaimed; the other one leaks.
		slog.Warn("argument record sets both key pointers",
			slog.String("using", kind.String()),
			slog.Uint64("key_len", uint64(raw.KeyLen)),
		)
	}

	var (
		keys  []string
		owned []unsafe.Pointer
	)
	switch kind {
	case KindString:
		keys = []string{copyString(raw.Key, "key_ptr", -1)}
		owned = append(owned, raw.Key)
	case KindArray:
		keys, owned = copyArray(raw.KeyArray, raw.KeyLen, "key_array_ptr", owned)
	default:
		panic(&ContractError{Kind: UnknownKind, Field: "kind", Index: -1})
	}
	args, owned := copyArray(raw.Args, raw.ArgsLen, "args_ptr", owned)

	for _, p := range owned {
		C.free(p)
	}

	if kind == KindString {
		return StringArg{Key: keys[0], Args: args}
	}
	return ArrayArg{Keys: keys, Args: args}
}

func copyString(p unsafe.Pointer, field string, index int) string {
	if p == nil {
		panic(&ContractError{Kind: MissingBuffer, Field: field, Index: index})
	}
	s := C.GoString((*C.char)(p))
	if !utf8.ValidString(s) {
		panic(&ContractError{Kind: InvalidEncodedArgument, Field: field, Index: index})
	}
	return s
}

// copyArray copies n strings out of a char** and appends the pointers it
// took ownership of, the array itself last.
func copyArray(p unsafe.Pointer, n uintptr, field string, owned []unsafe.Pointer) ([]string, []unsafe.Pointer) {
	out := make([]string, n)
	if n == 0 {
		if p != nil {
			owned = append(owned, p)
		}
		return out, owned
	}
	if p == nil {
		panic(&ContractError{Kind: MissingBuffer, Field: field, Index: -1})
	}
	elems := unsafe.Slice((**C.char)(p), n)
	for i, e := range elems {
		out[i] = copyString(unsafe.Pointer(e), field, i)
		owned = append(owned, unsafe.Pointer(e))
	}
	return out, append(owned, p)
}

// EncodeArguments builds a record the way a host does, with every buffer
// allocated by malloc and the kind set explicitly. Ownership passes to the
// provider that receives it; FreeArguments releases a record that was never
// handed over.
//
// An ArrayArg without keys encodes as an empty record.
func EncodeArguments(a Arguments) (RawArguments, error) {
	switch v := a.(type) {
	case nil, NoArgs:
		return RawArguments{Kind: KindNone}, nil
	case StringArg:
		if err := checkEncodable("key_ptr", []string{v.Key}); err != nil {
			return RawArguments{}, err
		}
		if err := checkEncodable("args_ptr", v.Args); err != nil {
			return RawArguments{}, err
		}
		return RawArguments{
			Key:     unsafe.Pointer(C.CString(v.Key)),
			Args:    cStringArray(v.Args),
			KeyLen:  1,
			ArgsLen: uintptr(len(v.Args)),
			Kind:    KindString,
		}, nil
	case ArrayArg:
		if len(v.Keys) == 0 {
			return RawArguments{Kind: KindNone}, nil
		}
		if err := checkEncodable("key_array_ptr", v.Keys); err != nil {
			return RawArguments{}, err
		}
		if err := checkEncodable("args_ptr", v.Args); err != nil {
			return RawArguments{}, err
		}
		return RawArguments{
			KeyArray: cStringArray(v.Keys),
			Args:     cStringArray(v.Args),
			KeyLen:   uintptr(len(v.Keys)),
			ArgsLen:  uintptr(len(v.Args)),
			Kind:     KindArray,
		}, nil
	default:
		return RawArguments{}, fmt.Errorf("encode arguments: unsupported type %T", a)
	}
}

func checkEncodable(field string, values []string) error {
	for i, v := range values {
		if strings.IndexByte(v, 0) >= 0 {
			return fmt.Errorf("encode %s[%d]: value contains NUL byte", field, i)
		}
	}
	return nil
}

func cStringArray(values []string) unsafe.Pointer {
	if len(values) == 0 {
		return nil
	}
	p := C.malloc(C.size_t(len(values)) * C.size_t(unsafe.Sizeof((*C.char)(nil))))
	elems := unsafe.Slice((**C.char)(p), len(values))
	for i, v := range values {
		elems[i] = C.CString(v)
	}
	return p
}

// FreeArguments releases every buffer of a record without decoding it,
// whatever its kind. A record with no keys owns nothing, as in Consume.
func FreeArguments(raw RawArguments) {
	if raw.KeyLen == 0 {
		return
	}
	var owned []unsafe.Pointer
	if raw.Key != nil {
		owned = append(owned, raw.Key)
	}
	owned = appendArray(owned, raw.KeyArray, raw.KeyLen)
	owned = appendArray(owned, raw.Args, raw.ArgsLen)
	for _, p := range owned {
		C.free(p)
	}
}

func appendArray(owned []unsafe.Pointer, p unsafe.Pointer, n uintptr) []unsafe.Pointer {
	if p == nil {
		return owned
	}
	if n > 0 {
		for _, e := range unsafe.Slice((**C.char)(p), n) {
			if e != nil {
				owned = append(owned, unsafe.Pointer(e))
			}
		}
	}
	return append(owned, p)
}
