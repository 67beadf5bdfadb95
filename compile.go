package vetra

// Validator is a compiled validation function. It returns the (possibly
// normalized or transformed) input value, or the first Failure encountered
// during the single top-to-bottom pass. Validators mutate JSON containers in
// place when a descriptor normalizes (Maybe) or rewrites (Transform,
// Preprocess) a nested slot.
type Validator func(v any) (any, error)

// Compile materializes d into a validator, memoized per descriptor identity.
// Successive calls with the same descriptor node return the identical cached
// function; structurally identical but separately constructed descriptors
// compile independently.
//
// The cache slot lives on the descriptor itself, so cached validators never
// outlive their descriptor. Concurrent Compile calls on a shared descriptor
// do benign duplicate work and converge on a single function via
// compare-and-swap.
func Compile(d *Descriptor) Validator {
	st := &emitState{compiling: make(map[*Descriptor]bool)}
	return st.compile(d)
}

// Parse is sugar for Compile(d)(v).
func Parse(d *Descriptor, v any) (any, error) {
	return Compile(d)(v)
}

// emitState carries the per-descent compilation state: the set of
// descriptors currently being compiled on this call stack. The set is local
// to one Compile invocation's transitive descent, never shared across
// goroutines, so one thread's in-progress compilation cannot confuse
// another's.
type emitState struct {
	compiling map[*Descriptor]bool
}

// compile returns the cached validator for d, building it if needed. When
// emission re-enters a descriptor still being compiled (a recursive shape
// reached through Lazy), it installs a trampoline that resolves the finished
// function from the cache slot at call time.
func (st *emitState) compile(d *Descriptor) Validator {
	mustDescriptor(d)
	if fn := d.compiled.Load(); fn != nil {
		return *fn
	}
	if st.compiling[d] {
		return func(v any) (any, error) {
			fn := d.compiled.Load()
			if fn == nil {
				panic("vetra: recursive validator invoked before compilation finished")
			}
			return (*fn)(v)
		}
	}
	st.compiling[d] = true
	// The marker clears even when emission panics, so a failed compile does
	// not poison future attempts.
	defer delete(st.compiling, d)

	root := st.emit(d, pathExpr{})
	fn := Validator(func(v any) (any, error) { return root(v, "") })
	if d.compiled.CompareAndSwap(nil, &fn) {
		return fn
	}
	return *d.compiled.Load()
}
