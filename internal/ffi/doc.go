// Package ffi implements the C boundary shared by every provider library.
//
// Providers receive arguments as a provider_args record, or a tagged
// provider_args_v2 through the "_v2" exports (see include/provider.h), and
// answer with a provider_result. Both sides use the C
// allocator: callers malloc argument buffers which Consume frees, and results
// are malloc'd here and must be returned through Release.
//
// Go code cannot share *C types across packages, so the exported libraries
// convert between their own C structs and the Go mirrors in this package
// (RawArguments and Result) with RawFromC, RawFromCV2 and StoreResult.
package ffi
