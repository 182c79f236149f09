package dual

// Vector is the derivative payload of a dynamically-sized dual number.
// The empty vector is the payload of constants and combines with a vector
// of any length; two non-empty vectors must have the same length.
type Vector[T Scalar] struct {
	v []T
}

// NewVector returns a vector payload holding a copy of values.
func NewVector[T Scalar](values []T) Vector[T] {
	if len(values) == 0 {
		return Vector[T]{}
	}
	return Vector[T]{v: append([]T(nil), values...)}
}

// Len returns the number of tracked variables, 0 for constants.
func (g Vector[T]) Len() int {
	return len(g.v)
}

// At returns the partial derivative with respect to variable i. Constants
// report 0 for every i.
func (g Vector[T]) At(i int) T {
	if len(g.v) == 0 {
		return 0
	}
	return g.v[i]
}

// Values returns a copy of the partial derivatives.
func (g Vector[T]) Values() []T {
	return append([]T(nil), g.v...)
}

// Scale returns k·g elementwise.
func (g Vector[T]) Scale(k T) Vector[T] {
	if len(g.v) == 0 {
		return g
	}
	out := make([]T, len(g.v))
	for i, d := range g.v {
		out[i] = mul(k, d)
	}
	return Vector[T]{v: out}
}

// Combine returns a·g + b·o elementwise. It panics with a *MismatchError
// when both vectors are non-empty and their lengths differ.
func (g Vector[T]) Combine(a T, o Vector[T], b T) Vector[T] {
	switch {
	case len(o.v) == 0:
		return g.Scale(a)
	case len(g.v) == 0:
		return o.Scale(b)
	case len(g.v) != len(o.v):
		panic(&MismatchError{Left: len(g.v), Right: len(o.v)})
	}
	out := make([]T, len(g.v))
	for i := range out {
		out[i] = mul(a, g.v[i]) + mul(b, o.v[i])
	}
	return Vector[T]{v: out}
}

func (g Vector[T]) String() string {
	return g.formatEntries('v', -1)
}

func (g Vector[T]) formatEntries(verb byte, prec int) string {
	return joinEntries(len(g.v), g.At, verb, prec)
}

// Dynamic is a dual number tracking a run-time number of variables.
type Dynamic[T Scalar] = Number[T, Vector[T]]

// Vars turns values into independent variables, one per input. Each result
// carries a len(values)-long basis vector; all results may be combined with
// each other.
func Vars[T Scalar](values []T) []Dynamic[T] {
	n := len(values)
	backing := make([]T, n*n)
	out := make([]Dynamic[T], n)
	for i, x := range values {
		basis := backing[i*n : (i+1)*n : (i+1)*n]
		basis[i] = 1
		out[i] = Dynamic[T]{value: x, grad: Vector[T]{v: basis}}
	}
	return out
}
