// Command describe builds a provider library that echoes the arguments it
// receives, for checking a host's argument encoding:
//
//	go build -buildmode=c-shared -o libpromptns_describe.so ./plugins/describe
//
// describe takes a provider_args and describe_v2 a provider_args_v2. The
// generated header declares index(), so hosts must not include <strings.h>
// next to it.
package main

/*
#cgo CFLAGS: -I${SRCDIR}/../../internal/ffi/include
#include "provider.h"
*/
import "C"

import (
	"unsafe"

	"github.com/thiagokokada/promptns/internal/ffi"
	"github.com/thiagokokada/promptns/internal/plugin"
	"github.com/thiagokokada/promptns/internal/provider"
)

var lib = plugin.New(provider.Describe())

//export index
func index() *C.char {
	return (*C.char)(lib.Symbols())
}

//export describe
func describe(args C.provider_args) (out C.provider_result) {
	res := lib.InvokeRaw("describe", ffi.RawFromC(unsafe.Pointer(&args)))
	ffi.StoreResult(unsafe.Pointer(&out), res)
	return out
}

//export describe_v2
func describe_v2(args C.provider_args_v2) (out C.provider_result) {
	res := lib.InvokeRaw("describe_v2", ffi.RawFromCV2(unsafe.Pointer(&args)))
	ffi.StoreResult(unsafe.Pointer(&out), res)
	return out
}

//export release_result
func release_result(data *C.char) {
	ffi.Release(unsafe.Pointer(data))
}

func main() {}
