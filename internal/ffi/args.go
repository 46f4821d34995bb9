package ffi

import "fmt"

// Kind is the variant tag carried in provider_args_v2.kind.
type Kind uint8

const (
	// KindInfer selects the variant from which key pointer is set. It is how
	// provider_args records are read and is invalid in provider_args_v2.
	KindInfer Kind = iota
	KindNone
	KindString
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindInfer:
		return "infer"
	case KindNone:
		return "none"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Arguments is the typed form of a provider_args record. It is one of
// StringArg, ArrayArg or NoArgs.
type Arguments interface {
	Kind() Kind
}

// StringArg is a single key followed by an ordered list of arguments.
type StringArg struct {
	Key  string
	Args []string
}

// ArrayArg is an ordered list of keys followed by an ordered list of arguments.
type ArrayArg struct {
	Keys []string
	Args []string
}

// NoArgs is passed to parameterless providers and for empty records.
type NoArgs struct{}

func (StringArg) Kind() Kind { return KindString }
func (ArrayArg) Kind() Kind  { return KindArray }
func (NoArgs) Kind() Kind    { return KindNone }

// ContractKind classifies violations of the boundary contract.
type ContractKind uint8

const (
	// InvalidEncodedArgument means a reclaimed buffer is not valid UTF-8.
	InvalidEncodedArgument ContractKind = iota + 1
	// MissingBuffer means a record declares data through a nil pointer.
	MissingBuffer
	// UnknownKind means provider_args_v2.kind holds an undefined value.
	UnknownKind
	// ConflictingKind means a record tagged as having no arguments declares
	// keys.
	ConflictingKind
)

func (k ContractKind) String() string {
	switch k {
	case InvalidEncodedArgument:
		return "invalid encoded argument"
	case MissingBuffer:
		return "missing buffer"
	case UnknownKind:
		return "unknown argument kind"
	case ConflictingKind:
		return "kind none with keys"
	default:
		return "contract violation"
	}
}

// ContractError reports a caller that broke the argument record contract.
// Consume panics with it: there is no meaningful recovery once the caller
// handed over malformed memory.
type ContractError struct {
	Kind  ContractKind
	Field string
	Index int
}

func (e *ContractError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("provider_args.%s[%d]: %s", e.Field, e.Index, e.Kind)
	}
	return fmt.Sprintf("provider_args.%s: %s", e.Field, e.Kind)
}
