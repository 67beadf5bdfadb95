package vetra

import "sync/atomic"

// Kind identifies a descriptor variant.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindNumber
	KindInt
	KindBigInt
	KindLiteral
	KindOneOf
	KindMaybe
	KindArray
	KindObject
	KindTuple
	KindRecord
	KindUnion
	KindTransform
	KindRefine
	KindPreprocess
	KindLazy
)

// String returns the descriptor tag name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindInt:
		return "integer"
	case KindBigInt:
		return "bigint"
	case KindLiteral:
		return "literal"
	case KindOneOf:
		return "oneOf"
	case KindMaybe:
		return "maybe"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindTuple:
		return "tuple"
	case KindRecord:
		return "record"
	case KindUnion:
		return "union"
	case KindTransform:
		return "transform"
	case KindRefine:
		return "refine"
	case KindPreprocess:
		return "preprocess"
	case KindLazy:
		return "lazy"
	default:
		return "unknown"
	}
}

// Field maps an object key to its value descriptor. Field order is
// declaration order and is preserved during emission, so two compiles of the
// same descriptor produce the same validation sequence.
type Field struct {
	Name   string
	Schema *Descriptor
}

// Descriptor is an immutable description of a validation shape. Descriptors
// are created by the combinator functions and are read-only afterwards;
// identity (not structure) is what the compilation cache is keyed on.
type Descriptor struct {
	kind Kind

	value    any           // literal
	values   []any         // oneOf
	inner    *Descriptor   // maybe, array, record, transform, refine, preprocess
	fields   []Field       // object
	items    []*Descriptor // tuple
	variants []*Descriptor // union
	mapFn    func(any) (any, error)
	pred     func(any) bool
	message  string
	thunk    func() *Descriptor

	// compiled is the cache slot for this descriptor's validator. Owning the
	// slot on the node keeps cache lifetime tied to the descriptor without a
	// weak map; see Compile.
	compiled atomic.Pointer[Validator]
}

// Kind reports the descriptor's tag.
func (d *Descriptor) Kind() Kind { return d.kind }

// missingValue is the private type of the Missing sentinel.
type missingValue struct{}

func (missingValue) String() string { return "missing" }

// Missing is the normalized form of an absent or null value under Maybe. It
// cannot be produced by JSON or YAML decoding, so it never collides with a
// legitimately validated value. Combinators reject schemas whose accepted
// value type is the sentinel itself (Literal(Missing), nested Maybe).
var Missing = missingValue{}
