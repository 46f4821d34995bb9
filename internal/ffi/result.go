package ffi

/*
#cgo CFLAGS: -I${SRCDIR}/include
#include <stdlib.h>
#include "provider.h"
*/
import "C"

import (
	"log/slog"
	"strings"
	"unsafe"
)

// Result mirrors provider_result. Data is nil whenever Exists is false.
type Result struct {
	Exists bool
	Data   unsafe.Pointer // char *
}

// CString returns a malloc'd copy of value, or nil when there is no value.
// A value with an embedded NUL cannot be read back from C and is treated as
// absent.
func CString(value string, ok bool) unsafe.Pointer {
	if !ok {
		return nil
	}
	if strings.IndexByte(value, 0) >= 0 {
		slog.Warn("dropping result with embedded NUL", slog.Int("len", len(value)))
		return nil
	}
	return unsafe.Pointer(C.CString(value))
}

// Encode wraps an optional value into a Result.
func Encode(value string, ok bool) Result {
	p := CString(value, ok)
	if p == nil {
		return Absent()
	}
	return Result{Exists: true, Data: p}
}

// Absent is the result for "no value".
func Absent() Result {
	return Result{}
}

// StoreResult writes r into the provider_result struct p points to.
func StoreResult(p unsafe.Pointer, r Result) {
	c := (*C.provider_result)(p)
	c.exists = C.bool(r.Exists)
	c.data = nil
	if r.Exists {
		c.data = (*C.char)(r.Data)
	}
}

// LoadResult reads the provider_result struct p points to.
func LoadResult(p unsafe.Pointer) Result {
	c := (*C.provider_result)(p)
	if !bool(c.exists) {
		return Absent()
	}
	return Result{Exists: true, Data: unsafe.Pointer(c.data)}
}

// GoString copies the value out of r without releasing it.
func GoString(r Result) (string, bool) {
	if !r.Exists || r.Data == nil {
		return "", false
	}
	return C.GoString((*C.char)(r.Data)), true
}

// Release frees a string previously returned to the caller. nil is ignored.
func Release(p unsafe.Pointer) {
	if p == nil {
		return
	}
	C.free(p)
}

// Take copies the value out of r and releases its allocation.
func Take(r Result) (string, bool) {
	s, ok := GoString(r)
	if r.Exists {
		Release(r.Data)
	}
	return s, ok
}
