package vetra_test

import (
	"strings"
	"testing"

	vetra "github.com/vetra-dev/vetra"
)

func TestUnion_KindDispatch(t *testing.T) {
	d := vetra.Union(vetra.Int(), vetra.String())
	for _, v := range []any{42, 42.0, "hello"} {
		if _, err := vetra.Parse(d, v); err != nil {
			t.Fatalf("expected %v to validate: %v", v, err)
		}
	}
	// The kind matched number before the integer refinement ran, so the
	// variant's own message wins over a generic union failure.
	_, err := vetra.Parse(d, 1.5)
	if err == nil || err.Error() != "expected integer" {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := vetra.Parse(d, true); err == nil || err.Error() != "union failed" {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestUnion_Discriminated(t *testing.T) {
	d := vetra.Union(
		vetra.Object(vetra.Prop("type", vetra.Literal("a")), vetra.Prop("val", vetra.String())),
		vetra.Object(vetra.Prop("type", vetra.Literal("b")), vetra.Prop("val", vetra.Number())),
	)

	if _, err := vetra.Parse(d, map[string]any{"type": "a", "val": "x"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := vetra.Parse(d, map[string]any{"type": "b", "val": 1.5}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	// A matched branch fails with the variant's own message, not a generic
	// union failure.
	_, err := vetra.Parse(d, map[string]any{"type": "a", "val": 42})
	if err == nil || err.Error() != "val: expected string" {
		t.Fatalf("unexpected err: %v", err)
	}

	for _, v := range []any{
		map[string]any{"type": "c", "val": "x"},
		map[string]any{"val": "x"},
		[]any{},
		nil,
	} {
		if _, err := vetra.Parse(d, v); err == nil || err.Error() != "union failed" {
			t.Fatalf("expected union failure for %v, got: %v", v, err)
		}
	}
}

func TestUnion_FallbackTriesInOrder(t *testing.T) {
	d := vetra.Union(
		vetra.Object(vetra.Prop("x", vetra.String())),
		vetra.Record(vetra.Int()),
	)
	// First variant wins when both would match.
	if _, err := vetra.Parse(d, map[string]any{"x": "ok"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := vetra.Parse(d, map[string]any{"n": 1.0}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestUnion_FallbackPropagatesLastError(t *testing.T) {
	d := vetra.Union(
		vetra.Object(vetra.Prop("x", vetra.String())),
		vetra.Tuple(vetra.Int()),
	)
	_, err := vetra.Parse(d, 5)
	if err == nil || err.Error() != "expected array of length 1" {
		t.Fatalf("expected the last variant's error, got: %v", err)
	}
}

func TestUnion_FallbackDoesNotLeakNormalization(t *testing.T) {
	d := vetra.Union(
		vetra.Object(
			vetra.Prop("a", vetra.Maybe(vetra.Number())),
			vetra.Prop("b", vetra.String()),
		),
		vetra.Object(vetra.Prop("a", vetra.Literal(nil))),
	)
	input := map[string]any{"a": nil, "b": 42}
	v, err := vetra.Parse(d, input)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	// The first variant normalized a: null to the sentinel on its private
	// snapshot before failing on b; the caller's value and the second
	// variant's view must both still see null.
	if input["a"] != nil {
		t.Fatalf("caller's input was mutated: %#v", input["a"])
	}
	if got := v.(map[string]any)["a"]; got != nil {
		t.Fatalf("unexpected result field: %#v", got)
	}
}

func TestUnion_FallbackPreservesTransformEffects(t *testing.T) {
	double := func(v any) (any, error) { return v.(float64) * 2, nil }
	d := vetra.Union(
		vetra.Object(vetra.Prop("x", vetra.String())),
		vetra.Transform(vetra.Number(), double),
	)
	v, err := vetra.Parse(d, 3.0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v != 6.0 {
		t.Fatalf("expected transform result from the winning variant, got %#v", v)
	}
}

func TestUnion_MixedKindsFallThroughToOrderedTry(t *testing.T) {
	// integer and number share the runtime kind, so the union cannot use
	// kind dispatch and must try variants in order.
	d := vetra.Union(vetra.Number(), vetra.Int())
	if _, err := vetra.Parse(d, 1.5); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	_, err := vetra.Parse(d, "x")
	if err == nil || !strings.Contains(err.Error(), "expected integer") {
		t.Fatalf("expected the last variant's error, got: %v", err)
	}
}
