package vetra

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/vetra-dev/vetra/internal/jsonval"
)

// step is one emitted validation fragment. It checks (and possibly rewrites)
// a value and returns the value that belongs back in the slot it came from.
// path carries the run-time error path; steps emitted under a fully static
// path ignore it and use the message baked in at emission time.
type step func(v any, path string) (any, error)

// pathExpr is the path accumulator threaded through emission. It stays
// static while every ancestor container used a known key or index; the first
// dynamically indexed ancestor (array, record) switches it to dynamic, after
// which descendant paths are built at run time.
type pathExpr struct {
	s       string
	dynamic bool
}

func (p pathExpr) key(name string) pathExpr {
	if p.dynamic {
		return p
	}
	if p.s == "" {
		return pathExpr{s: name}
	}
	return pathExpr{s: p.s + "." + name}
}

func (p pathExpr) index(i int) pathExpr {
	if p.dynamic {
		return p
	}
	return pathExpr{s: p.s + "[" + strconv.Itoa(i) + "]"}
}

// fail builds the failure constructor for this emission site. Static paths
// bake one Failure value up front; dynamic paths qualify the reason with the
// run-time path.
func (p pathExpr) fail(code, reason string) func(path string) error {
	if !p.dynamic {
		f := &Failure{Path: p.s, Code: code, Reason: reason}
		return func(string) error { return f }
	}
	return func(path string) error {
		return &Failure{Path: path, Code: code, Reason: reason}
	}
}

// failNow builds a Failure whose reason is only known at run time
// (Transform/Preprocess function errors).
func (p pathExpr) failNow(path, code, reason string) error {
	if !p.dynamic {
		path = p.s
	}
	return &Failure{Path: path, Code: code, Reason: reason}
}

// base resolves the path prefix container steps extend for their children:
// the emission-time string when static, the run-time argument otherwise.
func (p pathExpr) base(path string) string {
	if !p.dynamic {
		return p.s
	}
	return path
}

// emit walks one descriptor occurrence and composes its validation step.
// Nested compiled sub-validators (Lazy resolutions, fallback-union variants)
// go through st.compile and share this descent's recursion markers.
func (st *emitState) emit(d *Descriptor, p pathExpr) step {
	switch d.kind {
	case KindString:
		fail := p.fail(CodeInvalidType, "expected string")
		return func(v any, path string) (any, error) {
			if _, ok := v.(string); !ok {
				return v, fail(path)
			}
			return v, nil
		}

	case KindBool:
		fail := p.fail(CodeInvalidType, "expected boolean")
		return func(v any, path string) (any, error) {
			if _, ok := v.(bool); !ok {
				return v, fail(path)
			}
			return v, nil
		}

	case KindNumber:
		fail := p.fail(CodeInvalidType, "expected finite number")
		return func(v any, path string) (any, error) {
			if !jsonval.IsFiniteNumber(v) {
				return v, fail(path)
			}
			return v, nil
		}

	case KindInt:
		fail := p.fail(CodeInvalidType, "expected integer")
		return func(v any, path string) (any, error) {
			if !jsonval.IsInteger(v) {
				return v, fail(path)
			}
			return v, nil
		}

	case KindBigInt:
		fail := p.fail(CodeInvalidType, "expected bigint")
		return func(v any, path string) (any, error) {
			if !jsonval.IsBigInt(v) {
				return v, fail(path)
			}
			return v, nil
		}

	case KindLiteral:
		want := d.value
		fail := p.fail(CodeInvalidValue, "expected "+jsonval.Render(want))
		return func(v any, path string) (any, error) {
			if !jsonval.Equal(v, want) {
				return v, fail(path)
			}
			return v, nil
		}

	case KindOneOf:
		values := d.values
		reason := "expected one of "
		for i, w := range values {
			if i > 0 {
				reason += ", "
			}
			reason += jsonval.Render(w)
		}
		fail := p.fail(CodeInvalidValue, reason)
		return func(v any, path string) (any, error) {
			for _, w := range values {
				if jsonval.Equal(v, w) {
					return v, nil
				}
			}
			return v, fail(path)
		}

	case KindMaybe:
		inner := st.emit(d.inner, p)
		return func(v any, path string) (any, error) {
			if v == nil || v == any(Missing) {
				return Missing, nil
			}
			return inner(v, path)
		}

	case KindArray:
		item := st.emit(d.inner, pathExpr{dynamic: true})
		fail := p.fail(CodeInvalidType, "expected array")
		return func(v any, path string) (any, error) {
			arr, ok := v.([]any)
			if !ok {
				return v, fail(path)
			}
			base := p.base(path)
			for i := range arr {
				nv, err := item(arr[i], base+"["+strconv.Itoa(i)+"]")
				if err != nil {
					return v, err
				}
				arr[i] = nv
			}
			return arr, nil
		}

	case KindObject:
		return st.emitObject(d.fields, p)

	case KindTuple:
		steps := make([]step, len(d.items))
		for i, it := range d.items {
			steps[i] = st.emit(it, p.index(i))
		}
		fail := p.fail(CodeInvalidType, "expected array of length "+strconv.Itoa(len(d.items)))
		return func(v any, path string) (any, error) {
			arr, ok := v.([]any)
			if !ok || len(arr) != len(steps) {
				return v, fail(path)
			}
			base := p.base(path)
			for i, s := range steps {
				childPath := ""
				if p.dynamic {
					childPath = base + "[" + strconv.Itoa(i) + "]"
				}
				nv, err := s(arr[i], childPath)
				if err != nil {
					return v, err
				}
				arr[i] = nv
			}
			return arr, nil
		}

	case KindRecord:
		value := st.emit(d.inner, pathExpr{dynamic: true})
		fail := p.fail(CodeInvalidType, "expected object")
		return func(v any, path string) (any, error) {
			m, ok := v.(map[string]any)
			if !ok {
				return v, fail(path)
			}
			base := p.base(path)
			// Key order is sorted so the fail-fast error is deterministic.
			keys := make([]string, 0, len(m))
			for k := range m {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				nv, err := value(m[k], base+"["+k+"]")
				if err != nil {
					return v, err
				}
				m[k] = nv
			}
			return m, nil
		}

	case KindUnion:
		return st.emitUnion(d, p)

	case KindTransform:
		inner := st.emit(d.inner, p)
		fn := d.mapFn
		return func(v any, path string) (any, error) {
			nv, err := inner(v, path)
			if err != nil {
				return v, err
			}
			mv, err := fn(nv)
			if err != nil {
				return v, p.failNow(path, CodeTransform, err.Error())
			}
			return mv, nil
		}

	case KindRefine:
		inner := st.emit(d.inner, p)
		pred := d.pred
		msg := d.message
		if msg == "" {
			msg = "refinement failed"
		}
		fail := p.fail(CodeRefine, msg)
		return func(v any, path string) (any, error) {
			nv, err := inner(v, path)
			if err != nil {
				return v, err
			}
			if !pred(nv) {
				return v, fail(path)
			}
			return nv, nil
		}

	case KindPreprocess:
		inner := st.emit(d.inner, p)
		fn := d.mapFn
		return func(v any, path string) (any, error) {
			pv, err := fn(v)
			if err != nil {
				return v, p.failNow(path, CodeTransform, err.Error())
			}
			return inner(pv, path)
		}

	case KindLazy:
		resolved := d.thunk()
		mustDescriptor(resolved)
		sub := st.compile(resolved)
		return func(v any, _ string) (any, error) {
			return sub(v)
		}

	default:
		panic(fmt.Sprintf("vetra: unknown descriptor tag %q", d.kind))
	}
}

// emitObject composes the step for an ordered field list. It is shared with
// the discriminated-union path, which validates a variant's remaining fields
// after dispatching on the discriminant.
func (st *emitState) emitObject(fields []Field, p pathExpr) step {
	type fieldStep struct {
		name     string
		optional bool // Maybe fields tolerate the key being absent entirely
		check    step
	}
	steps := make([]fieldStep, len(fields))
	for i, f := range fields {
		steps[i] = fieldStep{
			name:     f.Name,
			optional: f.Schema.kind == KindMaybe,
			check:    st.emit(f.Schema, p.key(f.Name)),
		}
	}
	fail := p.fail(CodeInvalidType, "expected object")
	return func(v any, path string) (any, error) {
		m, ok := v.(map[string]any)
		if !ok {
			return v, fail(path)
		}
		if m == nil {
			m = make(map[string]any)
		}
		base := p.base(path)
		for i := range steps {
			f := &steps[i]
			fv, present := m[f.name]
			if f.optional && !present {
				continue
			}
			childPath := ""
			if p.dynamic {
				childPath = base + "." + f.name
			}
			nv, err := f.check(fv, childPath)
			if err != nil {
				return v, err
			}
			m[f.name] = nv
		}
		return m, nil
	}
}
