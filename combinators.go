package vetra

import (
	"github.com/vetra-dev/vetra/internal/jsonval"
)

// Primitive descriptors are package-level singletons: every call site shares
// one node, so Compile on a primitive always hits the same cache entry.
var (
	stringNode = &Descriptor{kind: KindString}
	boolNode   = &Descriptor{kind: KindBool}
	numberNode = &Descriptor{kind: KindNumber}
	intNode    = &Descriptor{kind: KindInt}
	bigIntNode = &Descriptor{kind: KindBigInt}
)

// String matches string values.
func String() *Descriptor { return stringNode }

// Bool matches boolean values.
func Bool() *Descriptor { return boolNode }

// Number matches finite numbers (NaN and ±Inf are rejected).
func Number() *Descriptor { return numberNode }

// Int matches strict integers: Go integer kinds and finite floats with no
// fractional part.
func Int() *Descriptor { return intNode }

// BigInt matches *big.Int values.
func BigInt() *Descriptor { return bigIntNode }

// Literal matches exactly the given value. Numeric values compare with IEEE
// semantics (Literal(0) accepts -0.0); nil matches JSON null. The value must
// be a scalar; Missing is not a valid literal.
func Literal(v any) *Descriptor {
	if v == any(Missing) {
		panic("vetra: Literal(Missing) is not a valid schema")
	}
	if !jsonval.ValidLiteral(v) {
		panic("vetra: literal value must be null, string, bool, a number or *big.Int")
	}
	return &Descriptor{kind: KindLiteral, value: v}
}

// OneOf matches membership in an explicit set of scalar values.
func OneOf(values ...any) *Descriptor {
	if len(values) == 0 {
		panic("vetra: OneOf requires at least one value")
	}
	vs := make([]any, len(values))
	for i, v := range values {
		if v == any(Missing) {
			panic("vetra: OneOf(Missing) is not a valid schema")
		}
		if !jsonval.ValidLiteral(v) {
			panic("vetra: oneOf value must be null, string, bool, a number or *big.Int")
		}
		vs[i] = v
	}
	return &Descriptor{kind: KindOneOf, values: vs}
}

// Maybe accepts the inner type, null, or (as a direct object field) an
// absent key. Null normalizes to the Missing sentinel. Nesting Maybe is
// rejected because the inner schema would then accept the sentinel as a
// legitimate value.
func Maybe(inner *Descriptor) *Descriptor {
	mustDescriptor(inner)
	if inner.kind == KindMaybe {
		panic("vetra: Maybe(Maybe(...)) is not a valid schema")
	}
	return &Descriptor{kind: KindMaybe, inner: inner}
}

// Array matches a homogeneous sequence of item.
func Array(item *Descriptor) *Descriptor {
	mustDescriptor(item)
	return &Descriptor{kind: KindArray, inner: item}
}

// Prop pairs an object key with its descriptor.
func Prop(name string, s *Descriptor) Field {
	mustDescriptor(s)
	return Field{Name: name, Schema: s}
}

// Object matches a non-null, non-array object with the given fields, in
// declaration order. Keys not declared in the shape pass through unexamined.
// Fields whose descriptor is Maybe additionally tolerate the key being
// absent entirely.
func Object(fields ...Field) *Descriptor {
	fs := make([]Field, len(fields))
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		mustDescriptor(f.Schema)
		if seen[f.Name] {
			panic("vetra: duplicate object key " + f.Name)
		}
		seen[f.Name] = true
		fs[i] = f
	}
	return &Descriptor{kind: KindObject, fields: fs}
}

// Tuple matches an array of exactly len(items) elements, positionally.
func Tuple(items ...*Descriptor) *Descriptor {
	is := make([]*Descriptor, len(items))
	for i, it := range items {
		mustDescriptor(it)
		is[i] = it
	}
	return &Descriptor{kind: KindTuple, items: is}
}

// Record matches an object with arbitrary string keys and homogeneous
// values.
func Record(value *Descriptor) *Descriptor {
	mustDescriptor(value)
	return &Descriptor{kind: KindRecord, inner: value}
}

// Union matches the first variant that accepts the input. The matching
// strategy is chosen at compile time: a kind dispatch when all variants are
// primitives of distinct kinds, a discriminant dispatch when all variants
// are objects pinning a shared field to distinct literals, and an ordered
// try over snapshots otherwise.
func Union(variants ...*Descriptor) *Descriptor {
	if len(variants) == 0 {
		panic("vetra: Union requires at least one variant")
	}
	vs := make([]*Descriptor, len(variants))
	for i, v := range variants {
		mustDescriptor(v)
		vs[i] = v
	}
	return &Descriptor{kind: KindUnion, variants: vs}
}

// Transform validates against inner, then replaces the value with fn's
// result. A non-nil error from fn fails validation at the current path.
func Transform(inner *Descriptor, fn func(any) (any, error)) *Descriptor {
	mustDescriptor(inner)
	if fn == nil {
		panic("vetra: Transform requires a function")
	}
	return &Descriptor{kind: KindTransform, inner: inner, mapFn: fn}
}

// Refine validates against inner, then asserts pred over the value. The
// optional message replaces the default "refinement failed".
func Refine(inner *Descriptor, pred func(any) bool, message ...string) *Descriptor {
	mustDescriptor(inner)
	if pred == nil {
		panic("vetra: Refine requires a predicate")
	}
	d := &Descriptor{kind: KindRefine, inner: inner, pred: pred}
	if len(message) > 0 {
		d.message = message[len(message)-1]
	}
	return d
}

// Preprocess maps the raw value through fn before any validation, then
// validates the result against inner.
func Preprocess(inner *Descriptor, fn func(any) (any, error)) *Descriptor {
	mustDescriptor(inner)
	if fn == nil {
		panic("vetra: Preprocess requires a function")
	}
	return &Descriptor{kind: KindPreprocess, inner: inner, mapFn: fn}
}

// Lazy defers descriptor resolution until compile time, enabling recursive
// shapes. The thunk is resolved once per emission site; each recursive
// occurrence compiles to an indirect call rather than inline expansion.
func Lazy(thunk func() *Descriptor) *Descriptor {
	if thunk == nil {
		panic("vetra: Lazy requires a thunk")
	}
	return &Descriptor{kind: KindLazy, thunk: thunk}
}

func mustDescriptor(d *Descriptor) {
	if d == nil {
		panic("vetra: nil descriptor")
	}
}
