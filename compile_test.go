package vetra_test

import (
	"reflect"
	"sync"
	"testing"

	vetra "github.com/vetra-dev/vetra"
)

func TestCompile_SameDescriptorCompilesOnce(t *testing.T) {
	resolved := 0
	d := vetra.Array(vetra.Lazy(func() *vetra.Descriptor {
		resolved++
		return vetra.Int()
	}))

	v1 := vetra.Compile(d)
	v2 := vetra.Compile(d)
	if resolved != 1 {
		t.Fatalf("expected a single emission, thunk resolved %d times", resolved)
	}
	if reflect.ValueOf(v1).Pointer() != reflect.ValueOf(v2).Pointer() {
		t.Fatalf("expected the cached validator on recompile")
	}
	if _, err := v1([]any{1.0, 2.0}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestCompile_StructurallyIdenticalDescriptorsCompileIndependently(t *testing.T) {
	r1, r2 := 0, 0
	d1 := vetra.Array(vetra.Lazy(func() *vetra.Descriptor { r1++; return vetra.Int() }))
	d2 := vetra.Array(vetra.Lazy(func() *vetra.Descriptor { r2++; return vetra.Int() }))

	vetra.Compile(d1)
	vetra.Compile(d2)
	if r1 != 1 || r2 != 1 {
		t.Fatalf("expected independent compilation, got %d and %d emissions", r1, r2)
	}
}

func TestCompile_PrimitiveSingletonsShareCache(t *testing.T) {
	if vetra.String() != vetra.String() {
		t.Fatalf("expected String() to return a singleton descriptor")
	}
	v1 := vetra.Compile(vetra.String())
	v2 := vetra.Compile(vetra.String())
	if reflect.ValueOf(v1).Pointer() != reflect.ValueOf(v2).Pointer() {
		t.Fatalf("expected one cache entry for the primitive singleton")
	}
}

func TestCompile_RecursiveTreeTerminates(t *testing.T) {
	var tree *vetra.Descriptor
	tree = vetra.Object(
		vetra.Prop("value", vetra.Int()),
		vetra.Prop("kids", vetra.Maybe(vetra.Array(vetra.Lazy(func() *vetra.Descriptor { return tree })))),
	)

	check := vetra.Compile(tree)

	root := map[string]any{"value": 0.0}
	cur := root
	for i := 1; i <= 200; i++ {
		child := map[string]any{"value": float64(i)}
		cur["kids"] = []any{child}
		cur = child
	}
	if _, err := check(root); err != nil {
		t.Fatalf("unexpected err on deep tree: %v", err)
	}

	// Cache-stable: recompiling the recursive schema reuses the entry.
	again := vetra.Compile(tree)
	if reflect.ValueOf(check).Pointer() != reflect.ValueOf(again).Pointer() {
		t.Fatalf("expected recursive schema to be cache-stable")
	}

	// A failure inside a recursive occurrence reports the sub-validator's
	// own (root-relative) path.
	bad := map[string]any{"value": 1.0, "kids": []any{map[string]any{"value": "x"}}}
	_, err := check(bad)
	if err == nil {
		t.Fatalf("expected failure")
	}
	if got := err.Error(); got != "value: expected integer" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestCompile_FailedCompileDoesNotPoison(t *testing.T) {
	calls := 0
	d := vetra.Array(vetra.Lazy(func() *vetra.Descriptor {
		calls++
		if calls == 1 {
			return nil
		}
		return vetra.Int()
	}))

	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected panic from nil thunk resolution")
			}
		}()
		vetra.Compile(d)
	}()

	check := vetra.Compile(d)
	if _, err := check([]any{1.0}); err != nil {
		t.Fatalf("expected the retry to compile cleanly, got: %v", err)
	}
}

func TestCompile_ConcurrentCompileConverges(t *testing.T) {
	d := vetra.Object(vetra.Prop("n", vetra.Number()))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			check := vetra.Compile(d)
			if _, err := check(map[string]any{"n": 1.0}); err != nil {
				t.Errorf("unexpected err: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestParse_IsCompileThenCall(t *testing.T) {
	d := vetra.Object(vetra.Prop("name", vetra.String()))
	v, err := vetra.Parse(d, map[string]any{"name": "ada"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if m := v.(map[string]any); m["name"] != "ada" {
		t.Fatalf("unexpected value: %#v", v)
	}
	if _, err := vetra.Parse(d, map[string]any{"name": 42}); err == nil {
		t.Fatalf("expected failure")
	}
}
