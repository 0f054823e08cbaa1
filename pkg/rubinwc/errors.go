package rubinwc

import "errors"

// OpError couples a stable failure code with the delegate error behind it.
// Pure validation failures return a bare Code; an OpError appears only when
// the delegate itself failed, so callers can log the underlying cause while
// still matching the code with errors.Is.
type OpError struct {
	// Op names the boundary operation, e.g. "keywrap".
	Op string

	// Code is the stable failure code for the boundary.
	Code Code

	// Err is the delegate error, if any.
	Err error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return e.Code.Error()
	}
	return e.Code.Error() + ": " + e.Err.Error()
}

// Unwrap exposes both the code and the delegate error to errors.Is/As.
func (e *OpError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Code}
	}
	return []error{e.Code, e.Err}
}

// CodeOf extracts the stable failure code from err. It reports false when
// err is nil or carries no code.
func CodeOf(err error) (Code, bool) {
	var c Code
	if errors.As(err, &c) {
		return c, true
	}
	return 0, false
}
