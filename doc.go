// Package vetra compiles declarative schema descriptors into specialized
// validation functions.
//
// - Schemas are built with combinators (String, Object, Array, Union, ...)
//   that construct immutable descriptor trees.
// - Compile walks a descriptor once and composes a single validator closure;
//   validating is a single pass over the input with no per-field
//   interpretation overhead.
// - Validators fail fast with one path-qualified Failure (for example
//   "items[1].id: expected integer").
// - Recursive shapes terminate via Lazy, which turns each recursive
//   occurrence into an indirect call instead of expanding it inline.
//
// Design policy:
// - Keep only public APIs in the root package; put value plumbing under
//   internal/.
// - Place the JSON Schema projection types under jsonschema/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	user := vetra.Object(
//		vetra.Prop("name", vetra.String()),
//		vetra.Prop("age", vetra.Maybe(vetra.Int())),
//	)
//	check := vetra.Compile(user)
//	v, err := check(input)
//
//	v, err := vetra.ParseJSON(user, data)
package vetra
