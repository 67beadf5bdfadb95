package vetra

import "github.com/vetra-dev/vetra/internal/jsonval"

// emitUnion picks the union strategy at emission time, never at validation
// time: a kind dispatch when all variants are primitives of distinct runtime
// kinds, a discriminant dispatch when all variants are objects pinning a
// shared field to distinct literals, and an ordered try over deep-cloned
// snapshots otherwise.
func (st *emitState) emitUnion(d *Descriptor, p pathExpr) step {
	if s, ok := st.emitKindUnion(d, p); ok {
		return s
	}
	if s, ok := st.emitDiscriminatedUnion(d, p); ok {
		return s
	}
	return st.emitOrderedUnion(d, p)
}

// typeofClass maps primitive descriptor tags onto runtime kind classes.
// Integer and number share the "number" class, so a union mixing them falls
// through to a more general strategy.
func typeofClass(k Kind) (string, bool) {
	switch k {
	case KindString:
		return "string", true
	case KindBool:
		return "boolean", true
	case KindNumber, KindInt:
		return "number", true
	case KindBigInt:
		return "bigint", true
	}
	return "", false
}

// emitKindUnion emits a single dispatch on the value's runtime kind. Each
// case runs that variant's own check, so refinements beyond the kind (the
// integer test, the finiteness test) fail with the variant's message rather
// than a generic union failure.
func (st *emitState) emitKindUnion(d *Descriptor, p pathExpr) (step, bool) {
	table := make(map[string]step, len(d.variants))
	for _, v := range d.variants {
		class, ok := typeofClass(v.kind)
		if !ok {
			return nil, false
		}
		if _, dup := table[class]; dup {
			return nil, false
		}
		table[class] = st.emit(v, p)
	}
	fail := p.fail(CodeUnion, "union failed")
	return func(v any, path string) (any, error) {
		check, ok := table[jsonval.TypeofClass(v)]
		if !ok {
			return v, fail(path)
		}
		return check(v, path)
	}, true
}

// emitDiscriminatedUnion looks for a field shared by every object variant
// where each variant pins that field to a distinct literal, and emits a
// dispatch on that field's value. The matched branch validates the variant's
// remaining fields; the discriminant itself already matched.
func (st *emitState) emitDiscriminatedUnion(d *Descriptor, p pathExpr) (step, bool) {
	for _, v := range d.variants {
		if v.kind != KindObject {
			return nil, false
		}
	}
	name, ok := discriminantField(d.variants)
	if !ok {
		return nil, false
	}

	type branch struct {
		tag  any
		rest step
	}
	branches := make([]branch, len(d.variants))
	for i, v := range d.variants {
		rest := make([]Field, 0, len(v.fields)-1)
		var tag any
		for _, f := range v.fields {
			if f.Name == name {
				tag = f.Schema.value
				continue
			}
			rest = append(rest, f)
		}
		branches[i] = branch{tag: tag, rest: st.emitObject(rest, p)}
	}
	fail := p.fail(CodeUnion, "union failed")
	return func(v any, path string) (any, error) {
		m, ok := v.(map[string]any)
		if !ok {
			return v, fail(path)
		}
		dv, present := m[name]
		if !present {
			return v, fail(path)
		}
		for i := range branches {
			if jsonval.Equal(dv, branches[i].tag) {
				return branches[i].rest(m, path)
			}
		}
		return v, fail(path)
	}, true
}

// discriminantField returns the first field (in the first variant's
// declaration order) that every variant pins to a distinct literal.
func discriminantField(variants []*Descriptor) (string, bool) {
candidates:
	for _, cand := range variants[0].fields {
		if cand.Schema.kind != KindLiteral {
			continue
		}
		tags := make([]any, 0, len(variants))
		for _, v := range variants {
			var lit *Descriptor
			for _, f := range v.fields {
				if f.Name == cand.Name {
					lit = f.Schema
					break
				}
			}
			if lit == nil || lit.kind != KindLiteral {
				continue candidates
			}
			for _, seen := range tags {
				if jsonval.Equal(lit.value, seen) {
					continue candidates
				}
			}
			tags = append(tags, lit.value)
		}
		return cand.Name, true
	}
	return "", false
}

// emitOrderedUnion compiles each variant as an independent sub-validator and
// tries them in declaration order against a deep-cloned snapshot, so one
// variant's partial normalization never leaks into the next attempt or into
// the caller's original value. The successful variant's result (including
// its transform side effects) is returned; if every variant fails, the last
// attempt's error propagates.
func (st *emitState) emitOrderedUnion(d *Descriptor, p pathExpr) step {
	subs := make([]Validator, len(d.variants))
	for i, v := range d.variants {
		subs[i] = st.compile(v)
	}
	fail := p.fail(CodeUnion, "union failed")
	return func(v any, path string) (any, error) {
		var lastErr error
		for _, sub := range subs {
			out, err := sub(jsonval.Clone(v))
			if err == nil {
				return out, nil
			}
			lastErr = err
		}
		if lastErr != nil {
			return v, lastErr
		}
		return v, fail(path)
	}
}
