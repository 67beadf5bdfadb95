package vetra

import (
	"errors"

	js "github.com/vetra-dev/vetra/jsonschema"
)

// ErrCyclicSchema reports a JSON Schema projection of a self-referential
// descriptor, which has no finite inline representation here.
var ErrCyclicSchema = errors.New("vetra: cyclic schema has no JSON Schema projection")

// JSONSchema projects the descriptor into a minimal JSON Schema
// representation. Transform, Refine and Preprocess project as their inner
// schema; Maybe projects as its inner schema and is reflected in the parent
// object's required list.
func (d *Descriptor) JSONSchema() (*js.Schema, error) {
	return projectSchema(d, make(map[*Descriptor]bool))
}

func projectSchema(d *Descriptor, seen map[*Descriptor]bool) (*js.Schema, error) {
	if seen[d] {
		return nil, ErrCyclicSchema
	}
	seen[d] = true
	defer delete(seen, d)

	switch d.kind {
	case KindString:
		return &js.Schema{Type: "string"}, nil
	case KindBool:
		return &js.Schema{Type: "boolean"}, nil
	case KindNumber:
		return &js.Schema{Type: "number"}, nil
	case KindInt:
		return &js.Schema{Type: "integer"}, nil
	case KindBigInt:
		return &js.Schema{Type: "integer", Format: "bigint"}, nil
	case KindLiteral:
		if d.value == nil {
			return &js.Schema{Type: "null"}, nil
		}
		return &js.Schema{Const: d.value}, nil
	case KindOneOf:
		return &js.Schema{Enum: append([]any(nil), d.values...)}, nil
	case KindMaybe, KindTransform, KindRefine, KindPreprocess:
		return projectSchema(d.inner, seen)
	case KindArray:
		item, err := projectSchema(d.inner, seen)
		if err != nil {
			return nil, err
		}
		return &js.Schema{Type: "array", Items: item}, nil
	case KindObject:
		out := &js.Schema{Type: "object"}
		if len(d.fields) > 0 {
			out.Properties = make(map[string]*js.Schema, len(d.fields))
		}
		for _, f := range d.fields {
			ps, err := projectSchema(f.Schema, seen)
			if err != nil {
				return nil, err
			}
			out.Properties[f.Name] = ps
			if f.Schema.kind != KindMaybe {
				out.Required = append(out.Required, f.Name)
			}
		}
		return out, nil
	case KindTuple:
		n := len(d.items)
		out := &js.Schema{Type: "array", MinItems: &n, MaxItems: &n}
		for _, it := range d.items {
			ps, err := projectSchema(it, seen)
			if err != nil {
				return nil, err
			}
			out.PrefixItems = append(out.PrefixItems, ps)
		}
		return out, nil
	case KindRecord:
		vs, err := projectSchema(d.inner, seen)
		if err != nil {
			return nil, err
		}
		return &js.Schema{Type: "object", AdditionalProperties: vs}, nil
	case KindUnion:
		out := &js.Schema{}
		for _, v := range d.variants {
			ps, err := projectSchema(v, seen)
			if err != nil {
				return nil, err
			}
			out.OneOf = append(out.OneOf, ps)
		}
		return out, nil
	case KindLazy:
		resolved := d.thunk()
		mustDescriptor(resolved)
		return projectSchema(resolved, seen)
	default:
		return nil, errors.New("vetra: unknown descriptor tag " + d.kind.String())
	}
}
