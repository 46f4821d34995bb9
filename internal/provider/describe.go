package provider

import (
	"fmt"

	"github.com/thiagokokada/promptns/internal/ffi"
)

// Describe returns the namespace of the argument echo library, used to check
// how a host encodes arguments. describe_v2 is the same provider behind the
// tagged provider_args_v2 export.
func Describe() *Namespace {
	return mustNamespace("describe",
		Provider{Name: "describe", Func: describe},
		Provider{Name: "describe_v2", Func: describe},
	)
}

func describe(req Request) (string, error) {
	return DescribeArguments(req.Args), nil
}

// DescribeArguments renders typed arguments in a stable, readable form.
func DescribeArguments(a ffi.Arguments) string {
	switch v := a.(type) {
	case ffi.StringArg:
		return fmt.Sprintf("key: String(%s); args: %q", v.Key, nonNil(v.Args))
	case ffi.ArrayArg:
		return fmt.Sprintf("key: Array(%q); args: %q", nonNil(v.Keys), nonNil(v.Args))
	default:
		return "no arguments supplied"
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
