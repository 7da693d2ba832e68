package errz

import "github.com/risor-io/lowering/internal/token"

// Contractf aborts the current transform with a contract violation. The
// panic is turned back into an error by Recover at the transform boundary.
func Contractf(start, end token.Position, format string, args ...any) {
	panic(NewStructuredErrorf(ErrContract, LocationFromRange(start, end, ""), format, args...))
}

// Abort panics with err so that Recover returns it from the enclosing
// transform. It is used by lowering routines that cannot return an error,
// such as macro expansion failures deep in a traversal.
func Abort(err *StructuredError) {
	panic(err)
}

// Recover stores a StructuredError raised by Contractf or Abort into errp.
// Any other panic value is re-raised. It must be called directly by a
// deferred function:
//
//	defer errz.Recover(&err)
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if se, ok := r.(*StructuredError); ok {
		*errp = se
		return
	}
	panic(r)
}
