package dual

// Slope is the derivative payload of a single-variable dual number.
type Slope[T Scalar] struct {
	d T
}

// NewSlope returns a slope payload with derivative d.
func NewSlope[T Scalar](d T) Slope[T] {
	return Slope[T]{d: d}
}

// Value returns the derivative.
func (s Slope[T]) Value() T {
	return s.d
}

// Scale returns k·s.
func (s Slope[T]) Scale(k T) Slope[T] {
	return Slope[T]{d: mul(k, s.d)}
}

// Combine returns a·s + b·o.
func (s Slope[T]) Combine(a T, o Slope[T], b T) Slope[T] {
	return Slope[T]{d: mul(a, s.d) + mul(b, o.d)}
}

func (s Slope[T]) String() string {
	return formatScalar(s.d)
}

func (s Slope[T]) formatEntries(verb byte, prec int) string {
	return formatVerb(s.d, verb, prec)
}

// Single is a dual number tracking one variable.
type Single[T Scalar] = Number[T, Slope[T]]

// Var returns x as the independent variable of a single-variable
// computation: derivative 1.
func Var[T Scalar](x T) Single[T] {
	return Single[T]{value: x, grad: Slope[T]{d: 1}}
}

// Deriv returns the derivative of a single-variable dual number.
func Deriv[T Scalar](n Single[T]) T {
	return n.grad.d
}

// Eval evaluates f at the variable x and returns its value and derivative.
func Eval[T Scalar](f func(Single[T]) Single[T], x T) (value, deriv T) {
	r := f(Var(x))
	return r.value, r.grad.d
}
