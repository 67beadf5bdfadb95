package vetra

import "errors"

// Failure codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType  = "invalid_type"
	CodeInvalidValue = "invalid_value"
	CodeRefine       = "refine"
	CodeUnion        = "union"
	CodeTransform    = "transform"
)

// Failure is the single error a compiled validator produces. Validation is
// fail-fast: the first mismatch anywhere in the tree aborts with one
// Failure. The rendered message is the stable contract; Path and Code are
// carried alongside for callers that want structure.
type Failure struct {
	Path   string // property-access notation ("items[1].id"); "" at the root
	Code   string // one of the codes listed above
	Reason string // "expected string", "union failed", ...
}

// Error renders "<path>: <reason>", or just "<reason>" at the root.
func (f *Failure) Error() string {
	if f.Path == "" {
		return f.Reason
	}
	return f.Path + ": " + f.Reason
}

// AsFailure extracts a *Failure from an error using errors.As internally.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
