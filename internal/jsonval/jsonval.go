// Package jsonval holds value plumbing for compiled validators: numeric kind
// tests, literal equality, deep cloning and failure-message rendering over
// JSON-style any trees (map[string]any, []any, string, bool, numeric kinds,
// *big.Int, nil).
package jsonval

import (
	"fmt"
	"math"
	"math/big"

	gojson "github.com/goccy/go-json"
)

// Clone deep-copies a JSON-compatible tree. Maps and slices are copied
// recursively; scalars are returned as-is. Values outside the JSON-compatible
// shape are shared, not copied: fallback-union snapshotting is scoped to
// JSON-compatible input.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = Clone(e)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = Clone(e)
		}
		return s
	default:
		return v
	}
}

// asFloat projects any numeric kind onto float64.
func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	}
	return 0, false
}

// IsFiniteNumber reports whether v is a numeric value other than NaN/±Inf.
func IsFiniteNumber(v any) bool {
	f, ok := asFloat(v)
	return ok && !math.IsNaN(f) && !math.IsInf(f, 0)
}

// IsInteger reports a strict integer: a Go integer kind, or a finite float
// with no fractional part.
func IsInteger(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	f, ok := asFloat(v)
	return ok && !math.IsNaN(f) && !math.IsInf(f, 0) && math.Trunc(f) == f
}

// IsBigInt reports whether v is a non-nil *big.Int.
func IsBigInt(v any) bool {
	b, ok := v.(*big.Int)
	return ok && b != nil
}

// Equal compares a candidate value against a literal with IEEE semantics
// across numeric kinds (so 0 equals -0 and int 1 equals float64 1). Only
// scalar shapes compare equal; containers never match a literal.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if af, ok := asFloat(a); ok {
		bf, ok2 := asFloat(b)
		return ok2 && af == bf
	}
	if ab, ok := a.(*big.Int); ok {
		bb, ok2 := b.(*big.Int)
		return ok2 && ab.Cmp(bb) == 0
	}
	switch a.(type) {
	case string, bool:
		return a == b
	}
	return false
}

// ValidLiteral reports whether v is usable as a literal or oneOf value:
// null, string, bool, a numeric kind, or *big.Int.
func ValidLiteral(v any) bool {
	if v == nil {
		return true
	}
	switch v.(type) {
	case string, bool, *big.Int:
		return true
	}
	_, ok := asFloat(v)
	return ok
}

// TypeofClass maps a runtime value onto the primitive-kind class used by
// kind-dispatched unions. Integer and number share the "number" class.
func TypeofClass(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case *big.Int:
		return "bigint"
	}
	if _, ok := asFloat(v); ok {
		return "number"
	}
	return ""
}

// Render renders a literal value for a failure message. null renders as
// "null"; strings render quoted; everything else renders in its JSON form.
func Render(v any) string {
	if v == nil {
		return "null"
	}
	if b, ok := v.(*big.Int); ok {
		return b.String()
	}
	out, err := gojson.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(out)
}
