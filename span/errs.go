package span

import "errors"

var (
	ErrPopEmpty = errors.New("pop without push")
)

// InvariantError is the panic value for misuse of a tracker or of the
// writers built on top of one. It marks a bug in the calling code, not a
// condition a user can cause.
type InvariantError struct {
	Err error
}

func (e *InvariantError) Error() string {
	return "invariant violated: " + e.Err.Error()
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}

// Invariant panics with an *InvariantError wrapping err.
func Invariant(err error) {
	panic(&InvariantError{Err: err})
}

// Recover converts an *InvariantError panic into *errp. Any other panic is
// propagated. It must be deferred directly:
//
//	defer span.Recover(&err)
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	ie, ok := r.(*InvariantError)
	if !ok {
		panic(r)
	}
	*errp = ie
}
