// Command git builds the git status provider library:
//
//	go build -buildmode=c-shared -o libpromptns_git.so ./plugins/git
//
// The generated header declares index(), so hosts must not include
// <strings.h> next to it.
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

var lib = plugin.New(provider.Git())

//export index
func index() *C.char {
	return (*C.char)(lib.Symbols())
}

//export branch
func branch() C.provider_result {
	return invoke("branch")
}

//export modified_count
func modified_count() C.provider_result {
	return invoke("modified_count")
}

//export staged_count
func staged_count() C.provider_result {
	return invoke("staged_count")
}

//export ahead_count
func ahead_count() C.provider_result {
	return invoke("ahead_count")
}

//export behind_count
func behind_count() C.provider_result {
	return invoke("behind_count")
}

//export release_result
func release_result(data *C.char) {
	ffi.Release(unsafe.Pointer(data))
}

func invoke(name string) (out C.provider_result) {
	ffi.StoreResult(unsafe.Pointer(&out), lib.Invoke(name, ffi.NoArgs{}))
	return out
}

func main() {}
