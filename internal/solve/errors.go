package solve

import (
	"errors"
	"fmt"
)

// Error codes carried by ConvergenceError.
const (
	CodeNotConverged = "E_NOT_CONVERGED" // iteration limit reached
	CodeSingular     = "E_SINGULAR"      // Jacobian could not be solved
	CodeNonFinite    = "E_NON_FINITE"    // residual or step is NaN or infinite
)

// ConvergenceError reports a Newton iteration that did not reach the
// tolerance. X is the last iterate and Residual its residual norm.
type ConvergenceError struct {
	Code       string
	Iterations int
	Residual   float64
	X          []float64
	Err        error // underlying solver error, if any
}

func (e *ConvergenceError) Error() string {
	msg := fmt.Sprintf("%s: after %d iteration(s), residual %g", e.Code, e.Iterations, e.Residual)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConvergenceError) Unwrap() error {
	return e.Err
}

// IsNotConverged reports whether err is a ConvergenceError of any code.
func IsNotConverged(err error) bool {
	var ce *ConvergenceError
	return errors.As(err, &ce)
}

// Code returns the ConvergenceError code carried by err, or "" if none.
func Code(err error) string {
	var ce *ConvergenceError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
