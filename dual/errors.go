package dual

import (
	"errors"
	"fmt"
)

// MismatchError reports an attempt to combine dynamic dual numbers whose
// derivative vectors have different lengths.
type MismatchError struct {
	Left  int
	Right int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("dual: derivative length mismatch: %d != %d", e.Left, e.Right)
}

// IsMismatch reports whether err is or wraps a *MismatchError.
func IsMismatch(err error) bool {
	var me *MismatchError
	return errors.As(err, &me)
}

// Try runs fn and converts a length-mismatch panic raised while combining
// dynamic dual numbers into an error. No partial result is returned on
// error. Other panics propagate unchanged.
//
//	f, err := dual.Try(func() dual.Dynamic[float64] {
//		return x.Mul(y)
//	})
func Try[R any](fn func() R) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			me, ok := r.(*MismatchError)
			if !ok {
				panic(r)
			}
			var zero R
			result, err = zero, me
		}
	}()
	return fn(), nil
}
