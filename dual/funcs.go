package dual

import "math"

// Each function below follows the chain rule: the value is g(x) and the
// payload is g'(x) times the argument's payload. Domain errors propagate the
// IEEE-754 special values of the math package into both parts.

// Exp returns e**n.
func (n Number[T, G]) Exp() Number[T, G] {
	e := T(math.Exp(float64(n.value)))
	return n.Chain(func(T) (T, T) { return e, e })
}

// Exp2 returns 2**n.
func (n Number[T, G]) Exp2() Number[T, G] {
	e := math.Exp2(float64(n.value))
	return n.Chain(func(T) (T, T) { return T(e), T(e * math.Ln2) })
}

// Expm1 returns e**n - 1.
func (n Number[T, G]) Expm1() Number[T, G] {
	return n.Chain(func(x T) (T, T) {
		return T(math.Expm1(float64(x))), T(math.Exp(float64(x)))
	})
}

// Log returns the natural logarithm of n.
//
// Special cases are:
//
//	Log(+Inf) = +Inf+0∆
//	Log(0) = -Inf±Inf∆
//	Log(x < 0) = NaN
func (n Number[T, G]) Log() Number[T, G] {
	return n.Chain(func(x T) (T, T) { return T(math.Log(float64(x))), 1 / x })
}

// Log2 returns the binary logarithm of n.
func (n Number[T, G]) Log2() Number[T, G] {
	return n.Chain(func(x T) (T, T) {
		return T(math.Log2(float64(x))), T(1 / (float64(x) * math.Ln2))
	})
}

// Log10 returns the decimal logarithm of n.
func (n Number[T, G]) Log10() Number[T, G] {
	return n.Chain(func(x T) (T, T) {
		return T(math.Log10(float64(x))), T(1 / (float64(x) * math.Ln10))
	})
}

// Log1p returns the natural logarithm of 1+n.
func (n Number[T, G]) Log1p() Number[T, G] {
	return n.Chain(func(x T) (T, T) { return T(math.Log1p(float64(x))), 1 / (1 + x) })
}

// Sqrt returns the square root of n.
//
// Special cases are:
//
//	Sqrt(+Inf) = +Inf
//	Sqrt(±0) = ±0+Inf∆
//	Sqrt(x < 0) = NaN
func (n Number[T, G]) Sqrt() Number[T, G] {
	return n.Chain(func(x T) (T, T) {
		s := T(math.Sqrt(float64(x)))
		return s, 1 / (2 * s)
	})
}

// Cbrt returns the cube root of n.
func (n Number[T, G]) Cbrt() Number[T, G] {
	return n.Chain(func(x T) (T, T) {
		c := T(math.Cbrt(float64(x)))
		return c, 1 / (3 * c * c)
	})
}

// PowReal returns n**p for a constant exponent p. PowReal(x, 0) is the
// constant 1 for every x.
func (n Number[T, G]) PowReal(p T) Number[T, G] {
	if p == 0 {
		return n.Lift(1)
	}
	return n.Chain(func(x T) (T, T) {
		return T(math.Pow(float64(x), float64(p))), p * T(math.Pow(float64(x), float64(p-1)))
	})
}

// PowInt returns n**k for an integer exponent k.
func (n Number[T, G]) PowInt(k int) Number[T, G] {
	return n.PowReal(T(k))
}

// Pow returns n**o where both base and exponent are dual numbers. The
// exponent's partial is n**o·ln(n), which is NaN for a negative base even
// when o is a constant; use PowReal for constant exponents.
func (n Number[T, G]) Pow(o Number[T, G]) Number[T, G] {
	x, y := float64(n.value), float64(o.value)
	v := math.Pow(x, y)
	da := y * math.Pow(x, y-1)
	db := v * math.Log(x)
	if x == 0 && y > 0 {
		db = 0
	}
	return n.combine(T(v), T(da), o, T(db))
}

// Sin returns the sine of n.
func (n Number[T, G]) Sin() Number[T, G] {
	s, c := math.Sincos(float64(n.value))
	return n.Chain(func(T) (T, T) { return T(s), T(c) })
}

// Cos returns the cosine of n.
func (n Number[T, G]) Cos() Number[T, G] {
	s, c := math.Sincos(float64(n.value))
	return n.Chain(func(T) (T, T) { return T(c), T(-s) })
}

// SinCos returns Sin and Cos of n with a single evaluation.
func (n Number[T, G]) SinCos() (sin, cos Number[T, G]) {
	s, c := math.Sincos(float64(n.value))
	sin = Number[T, G]{value: T(s), grad: n.grad.Scale(T(c))}
	cos = Number[T, G]{value: T(c), grad: n.grad.Scale(T(-s))}
	return sin, cos
}

// Tan returns the tangent of n.
func (n Number[T, G]) Tan() Number[T, G] {
	t := math.Tan(float64(n.value))
	return n.Chain(func(T) (T, T) { return T(t), T(1 + t*t) })
}

// Asin returns the arcsine of n.
func (n Number[T, G]) Asin() Number[T, G] {
	return n.Chain(func(x T) (T, T) {
		return T(math.Asin(float64(x))), T(1 / math.Sqrt(1-float64(x*x)))
	})
}

// Acos returns the arccosine of n.
func (n Number[T, G]) Acos() Number[T, G] {
	return n.Chain(func(x T) (T, T) {
		return T(math.Acos(float64(x))), T(-1 / math.Sqrt(1-float64(x*x)))
	})
}

// Atan returns the arctangent of n.
func (n Number[T, G]) Atan() Number[T, G] {
	return n.Chain(func(x T) (T, T) { return T(math.Atan(float64(x))), 1 / (1 + x*x) })
}

// Atan2 returns the arctangent of n/o using the signs of both to pick the
// quadrant, with n as the ordinate.
func (n Number[T, G]) Atan2(o Number[T, G]) Number[T, G] {
	y, x := n.value, o.value
	r2 := x*x + y*y
	return n.combine(T(math.Atan2(float64(y), float64(x))), x/r2, o, -y/r2)
}

// Sinh returns the hyperbolic sine of n.
func (n Number[T, G]) Sinh() Number[T, G] {
	return n.Chain(func(x T) (T, T) {
		return T(math.Sinh(float64(x))), T(math.Cosh(float64(x)))
	})
}

// Cosh returns the hyperbolic cosine of n.
func (n Number[T, G]) Cosh() Number[T, G] {
	return n.Chain(func(x T) (T, T) {
		return T(math.Cosh(float64(x))), T(math.Sinh(float64(x)))
	})
}

// Tanh returns the hyperbolic tangent of n.
func (n Number[T, G]) Tanh() Number[T, G] {
	t := T(math.Tanh(float64(n.value)))
	return n.Chain(func(T) (T, T) { return t, 1 - t*t })
}

// Asinh returns the inverse hyperbolic sine of n.
func (n Number[T, G]) Asinh() Number[T, G] {
	return n.Chain(func(x T) (T, T) {
		return T(math.Asinh(float64(x))), T(1 / math.Sqrt(float64(x*x)+1))
	})
}

// Acosh returns the inverse hyperbolic cosine of n.
func (n Number[T, G]) Acosh() Number[T, G] {
	return n.Chain(func(x T) (T, T) {
		return T(math.Acosh(float64(x))), T(1 / math.Sqrt(float64(x*x)-1))
	})
}

// Atanh returns the inverse hyperbolic tangent of n.
func (n Number[T, G]) Atanh() Number[T, G] {
	return n.Chain(func(x T) (T, T) { return T(math.Atanh(float64(x))), 1 / (1 - x*x) })
}

// Abs returns |n|. At ±0 the derivative is the sign of the zero.
func (n Number[T, G]) Abs() Number[T, G] {
	return n.Chain(func(x T) (T, T) { return T(math.Abs(float64(x))), signum(x) })
}

// Signum returns 1 for positive n (including +0), -1 for negative n
// (including -0) and NaN for NaN. Its derivative is zero everywhere.
func (n Number[T, G]) Signum() Number[T, G] {
	return n.Chain(func(x T) (T, T) { return signum(x), 0 })
}

// Recip returns 1/n.
func (n Number[T, G]) Recip() Number[T, G] {
	return n.ConstDiv(1)
}

// Hypot returns sqrt(n*n + o*o).
func (n Number[T, G]) Hypot(o Number[T, G]) Number[T, G] {
	h := T(math.Hypot(float64(n.value), float64(o.value)))
	return n.combine(h, n.value/h, o, o.value/h)
}

// Max returns the larger of n and o; n when they are equal.
func (n Number[T, G]) Max(o Number[T, G]) Number[T, G] {
	if o.value > n.value {
		return o
	}
	return n
}

// Min returns the smaller of n and o; n when they are equal.
func (n Number[T, G]) Min(o Number[T, G]) Number[T, G] {
	if o.value < n.value {
		return o
	}
	return n
}

func signum[T Scalar](x T) T {
	if math.IsNaN(float64(x)) {
		return x
	}
	return T(math.Copysign(1, float64(x)))
}
