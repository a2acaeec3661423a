package codegen

import (
	"errors"
	"fmt"
)

// ErrUpvalueNotSupported marks the unimplemented upvalue-capture boundary:
// a name resolved to a scope owned by an enclosing function. The capture
// protocol is an open extension point, deliberately not chosen yet.
var ErrUpvalueNotSupported = errors.New("codegen: upvalue capture not yet supported")

// InternalError is an internal-consistency failure in the generator: a
// node or token the tree walk cannot handle. These are bugs or
// incomplete-implementation boundaries, never user-facing compile errors —
// syntax errors must have been rejected by the parser before this stage.
// The generator panics with an *InternalError rather than returning it.
type InternalError struct {
	Reason string
	Err    error
}

func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("codegen: %s: %v", e.Reason, e.Err)
	}
	return "codegen: " + e.Reason
}

func (e *InternalError) Unwrap() error { return e.Err }

func internalf(format string, args ...any) {
	panic(&InternalError{Reason: fmt.Sprintf(format, args...)})
}
