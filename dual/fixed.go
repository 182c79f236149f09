package dual

// Dense is the set of array types usable as a fixed-size payload. The array
// length is the number of variables and is part of the dual number's type.
type Dense[T Scalar] interface {
	~[1]T | ~[2]T | ~[3]T | ~[4]T | ~[5]T | ~[6]T | ~[7]T | ~[8]T |
		~[9]T | ~[10]T | ~[11]T | ~[12]T | ~[13]T | ~[14]T | ~[15]T | ~[16]T
}

// Array is the derivative payload of a fixed-size dual number.
type Array[T Scalar, A Dense[T]] struct {
	a A
}

// NewArray returns an array payload holding a copy of a.
func NewArray[T Scalar, A Dense[T]](a A) Array[T, A] {
	return Array[T, A]{a: a}
}

// Len returns the number of tracked variables.
func (g Array[T, A]) Len() int {
	return len(g.a)
}

// At returns the partial derivative with respect to variable i.
func (g Array[T, A]) At(i int) T {
	return g.a[i]
}

// Values returns a copy of the partial derivatives.
func (g Array[T, A]) Values() A {
	return g.a
}

// Scale returns k·g elementwise.
func (g Array[T, A]) Scale(k T) Array[T, A] {
	var out A
	for i := 0; i < len(out); i++ {
		out[i] = mul(k, g.a[i])
	}
	return Array[T, A]{a: out}
}

// Combine returns a·g + b·o elementwise.
func (g Array[T, A]) Combine(a T, o Array[T, A], b T) Array[T, A] {
	var out A
	for i := 0; i < len(out); i++ {
		out[i] = mul(a, g.a[i]) + mul(b, o.a[i])
	}
	return Array[T, A]{a: out}
}

func (g Array[T, A]) String() string {
	return g.formatEntries('v', -1)
}

func (g Array[T, A]) formatEntries(verb byte, prec int) string {
	return joinEntries(len(g.a), g.At, verb, prec)
}

// Fixed is a dual number tracking len(A) variables.
type Fixed[T Scalar, A Dense[T]] = Number[T, Array[T, A]]

// FixedVars turns values into len(A) independent variables. The i-th result
// carries the basis vector e_i.
func FixedVars[T Scalar, A Dense[T]](values A) []Fixed[T, A] {
	out := make([]Fixed[T, A], len(values))
	for i := range out {
		var basis A
		basis[i] = 1
		out[i] = Fixed[T, A]{value: values[i], grad: Array[T, A]{a: basis}}
	}
	return out
}
