package dual

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// Grad is the derivative payload carried by a dual number.
//
// Implementations are immutable: Scale and Combine return a new payload and
// never modify the receiver or the argument. The zero value of G must be the
// additive identity, which is what constants carry.
type Grad[T Scalar, G any] interface {
	// Scale returns k⊙g.
	Scale(k T) G
	// Combine returns a⊙g ⊕ b⊙o.
	Combine(a T, o G, b T) G

	fmt.Stringer
}

// Dual is the read side shared by every dual number representation.
type Dual[T Scalar, G any] interface {
	Value() T
	Grad() G
	Parts() (T, G)
}

// entryFormatter is implemented by payloads that can render their entries
// with an explicit verb and precision.
type entryFormatter interface {
	formatEntries(verb byte, prec int) string
}

// Number is a dual number: a value together with its derivative payload.
// The zero Number is the constant 0.
type Number[T Scalar, G Grad[T, G]] struct {
	value T
	grad  G
}

var _ Dual[float64, Slope[float64]] = Number[float64, Slope[float64]]{}

// FromParts builds a dual number from a value and a derivative payload.
// FromParts(n.Parts()) is observationally equal to n.
func FromParts[T Scalar, G Grad[T, G]](value T, grad G) Number[T, G] {
	return Number[T, G]{value: value, grad: grad}
}

// Const returns a constant: a dual number whose payload is the additive
// identity, so it never registers a partial derivative.
func Const[G Grad[T, G], T Scalar](value T) Number[T, G] {
	return Number[T, G]{value: value}
}

// Value returns the real part.
func (n Number[T, G]) Value() T {
	return n.value
}

// Grad returns the derivative payload.
func (n Number[T, G]) Grad() G {
	return n.grad
}

// Parts decomposes n into its value and payload. Payloads are immutable, so
// the result shares nothing that could be modified through n.
func (n Number[T, G]) Parts() (T, G) {
	return n.value, n.grad
}

// Lift returns the constant c in the same representation as n.
func (n Number[T, G]) Lift(c T) Number[T, G] {
	return Number[T, G]{value: c}
}

// Chain applies a unary function f. f returns the function value and its
// derivative at the argument; the payload is scaled by the latter.
func (n Number[T, G]) Chain(f func(x T) (fx, dfx T)) Number[T, G] {
	fx, dfx := f(n.value)
	return Number[T, G]{value: fx, grad: n.grad.Scale(dfx)}
}

// combine applies a binary rule with partials da and db.
func (n Number[T, G]) combine(value, da T, o Number[T, G], db T) Number[T, G] {
	return Number[T, G]{value: value, grad: n.grad.Combine(da, o.grad, db)}
}

// Add returns n+o.
func (n Number[T, G]) Add(o Number[T, G]) Number[T, G] {
	return n.combine(n.value+o.value, 1, o, 1)
}

// Sub returns n-o.
func (n Number[T, G]) Sub(o Number[T, G]) Number[T, G] {
	return n.combine(n.value-o.value, 1, o, -1)
}

// Mul returns n*o.
func (n Number[T, G]) Mul(o Number[T, G]) Number[T, G] {
	return n.combine(n.value*o.value, o.value, o, n.value)
}

// Div returns n/o.
//
// The payload is computed as (o.v⊙n.d ⊕ -n.v⊙o.d)/o.v², which makes x/x
// exactly zero-sensitive. Divisors whose square is zero, overflows or is
// NaN use the partials 1/o.v and -n.v/o.v² directly.
func (n Number[T, G]) Div(o Number[T, G]) Number[T, G] {
	sq := o.value * o.value
	inv := 1 / sq
	if o.value == 0 || inv == 0 || math.IsInf(float64(inv), 0) || math.IsNaN(float64(inv)) {
		// The factored form would multiply n.d by 0 before applying 1/0.
		return Number[T, G]{
			value: n.value / o.value,
			grad:  n.grad.Combine(1/o.value, o.grad, -n.value/sq),
		}
	}
	grad := n.grad.Combine(o.value, o.grad, -n.value)
	return Number[T, G]{
		value: n.value / o.value,
		grad:  grad.Scale(inv),
	}
}

// Neg returns -n.
func (n Number[T, G]) Neg() Number[T, G] {
	return Number[T, G]{value: -n.value, grad: n.grad.Scale(-1)}
}

// AddConst returns n+c.
func (n Number[T, G]) AddConst(c T) Number[T, G] {
	return Number[T, G]{value: n.value + c, grad: n.grad}
}

// SubConst returns n-c.
func (n Number[T, G]) SubConst(c T) Number[T, G] {
	return Number[T, G]{value: n.value - c, grad: n.grad}
}

// ConstSub returns c-n.
func (n Number[T, G]) ConstSub(c T) Number[T, G] {
	return Number[T, G]{value: c - n.value, grad: n.grad.Scale(-1)}
}

// MulConst returns n*c.
func (n Number[T, G]) MulConst(c T) Number[T, G] {
	return Number[T, G]{value: n.value * c, grad: n.grad.Scale(c)}
}

// DivConst returns n/c.
func (n Number[T, G]) DivConst(c T) Number[T, G] {
	return Number[T, G]{value: n.value / c, grad: n.grad.Scale(1 / c)}
}

// ConstDiv returns c/n.
func (n Number[T, G]) ConstDiv(c T) Number[T, G] {
	return Number[T, G]{value: c / n.value, grad: n.grad.Scale(-c / (n.value * n.value))}
}

// Sum returns the sum of xs. The sum of no numbers is the constant 0.
func Sum[T Scalar, G Grad[T, G]](xs ...Number[T, G]) Number[T, G] {
	var acc Number[T, G]
	for _, x := range xs {
		acc = acc.Add(x)
	}
	return acc
}

// Product returns the product of xs. The product of no numbers is the
// constant 1.
func Product[T Scalar, G Grad[T, G]](xs ...Number[T, G]) Number[T, G] {
	if len(xs) == 0 {
		return Number[T, G]{value: 1}
	}
	acc := xs[0]
	for _, x := range xs[1:] {
		acc = acc.Mul(x)
	}
	return acc
}

// String renders n as "<value>+<derivative>∆".
func (n Number[T, G]) String() string {
	return formatScalar(n.value) + signed(n.grad.String()) + "∆"
}

// Format implements fmt.Formatter. The verbs e, E, f, F, g and G apply the
// requested precision to the value and to every derivative entry; v and s
// print String.
func (n Number[T, G]) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v', 's':
		_, _ = io.WriteString(s, n.String())
	case 'e', 'E', 'f', 'F', 'g', 'G':
		prec, ok := s.Precision()
		if !ok {
			prec = -1
		}
		grad := n.grad.String()
		if ef, ok := any(n.grad).(entryFormatter); ok {
			grad = ef.formatEntries(byte(verb), prec)
		}
		_, _ = io.WriteString(s, formatVerb(n.value, byte(verb), prec)+signed(grad)+"∆")
	default:
		_, _ = fmt.Fprintf(s, "%%!%c(dual.Number=%s)", verb, n.String())
	}
}

func signed(s string) string {
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return s
	}
	return "+" + s
}
