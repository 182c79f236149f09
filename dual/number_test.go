package dual

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingle_SquarePlusOne(t *testing.T) {
	x := Var(2.0)
	f := x.Mul(x).AddConst(1)

	assert.Equal(t, 5.0, f.Value())
	assert.Equal(t, 4.0, Deriv(f))
	assert.Equal(t, "5+4∆", f.String())
}

func TestSingle_NegativeSlopeDisplay(t *testing.T) {
	x := Var(2.0)
	f := x.ConstSub(7).MulConst(2)

	assert.Equal(t, 10.0, f.Value())
	assert.Equal(t, "10-2∆", f.String())
}

func TestSingle_Add(t *testing.T) {
	a := FromParts(1.5, NewSlope(2.0))
	b := FromParts(-0.5, NewSlope(3.0))

	sum := a.Add(b)
	assert.Equal(t, a.Value()+b.Value(), sum.Value())
	assert.Equal(t, 5.0, sum.Grad().Value())

	diff := a.Sub(b)
	assert.Equal(t, 2.0, diff.Value())
	assert.Equal(t, -1.0, diff.Grad().Value())
}

func TestSingle_DivSelfIsExactlyZeroSensitive(t *testing.T) {
	for _, v := range []float64{2, 3, 0.1, -7.25, 12345.678} {
		x := Var(v)
		q := x.Div(x)
		assert.Equal(t, 1.0, q.Value(), "x=%v", v)
		assert.Equal(t, 0.0, Deriv(q), "x=%v", v)
	}
}

func TestSingle_QuotientRule(t *testing.T) {
	// d/dx (x / (x+1)) = 1/(x+1)^2
	x := Var(3.0)
	f := x.Div(x.AddConst(1))

	assert.Equal(t, 0.75, f.Value())
	assert.InDelta(t, 1.0/16, Deriv(f), 1e-15)
}

func TestSingle_ConstantOperations(t *testing.T) {
	x := Var(4.0)

	tests := []struct {
		name  string
		got   Single[float64]
		value float64
		deriv float64
	}{
		{"add", x.AddConst(1), 5, 1},
		{"sub", x.SubConst(1), 3, 1},
		{"const_sub", x.ConstSub(1), -3, -1},
		{"mul", x.MulConst(3), 12, 3},
		{"div", x.DivConst(2), 2, 0.5},
		{"const_div", x.ConstDiv(8), 2, -0.5},
		{"neg", x.Neg(), -4, -1},
		{"recip", x.Recip(), 0.25, -1.0 / 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.value, tt.got.Value())
			assert.Equal(t, tt.deriv, Deriv(tt.got))
		})
	}
}

func TestConst_RegistersNoDerivative(t *testing.T) {
	c := Const[Slope[float64]](3.0)
	x := Var(2.0)

	assert.Equal(t, 0.0, Deriv(c))
	assert.Equal(t, Deriv(x.AddConst(3)), Deriv(x.Add(c)))
	assert.Equal(t, Deriv(x.MulConst(3)), Deriv(x.Mul(c)))
	assert.Equal(t, x.Lift(3), c)
}

func TestParts_Roundtrip(t *testing.T) {
	x := Var(1.25).Sin().MulConst(3)

	value, grad := x.Parts()
	back := FromParts(value, grad)

	assert.Equal(t, x, back)
	assert.Equal(t, x.String(), back.String())
}

func TestChain_AppliesValueAndDerivativeRules(t *testing.T) {
	// f(x) = x^3 with f' supplied by hand
	cube := func(x float64) (float64, float64) { return x * x * x, 3 * x * x }

	f := Var(2.0).Chain(cube)
	assert.Equal(t, 8.0, f.Value())
	assert.Equal(t, 12.0, Deriv(f))
}

func TestEval(t *testing.T) {
	value, deriv := Eval(func(x Single[float64]) Single[float64] {
		return x.SubConst(1).PowReal(2)
	}, 3.0)

	assert.Equal(t, 4.0, value)
	assert.Equal(t, 4.0, deriv)
}

func TestSumAndProduct(t *testing.T) {
	assert.Equal(t, Number[float64, Slope[float64]]{}, Sum[float64, Slope[float64]]())

	empty := Product[float64, Slope[float64]]()
	assert.Equal(t, 1.0, empty.Value())
	assert.Equal(t, 0.0, Deriv(empty))

	x := Var(3.0)
	p := Product(x, x, x)
	assert.Equal(t, 27.0, p.Value())
	assert.Equal(t, 27.0, Deriv(p))

	s := Sum(x, x.MulConst(2))
	assert.Equal(t, 9.0, s.Value())
	assert.Equal(t, 3.0, Deriv(s))
}

func TestSingle_Float32(t *testing.T) {
	x := Var(float32(2))
	f := x.Mul(x).AddConst(1)

	assert.Equal(t, float32(5), f.Value())
	assert.Equal(t, float32(4), Deriv(f))
	assert.Equal(t, "5+4∆", f.String())

	third := Var(float32(1)).DivConst(3)
	assert.Equal(t, "0.33333334+0.33333334∆", third.String())
}

type celsius float64

func TestSingle_NamedScalar(t *testing.T) {
	x := Var(celsius(10))
	f := x.MulConst(1.8).AddConst(32)

	assert.Equal(t, celsius(50), f.Value())
	assert.Equal(t, celsius(1.8), Deriv(f))
}

func TestFormat_Verbs(t *testing.T) {
	x := Var(1.5)
	f := x.Mul(x)

	assert.Equal(t, "2.25+3∆", fmt.Sprint(f))
	assert.Equal(t, "2.25+3∆", fmt.Sprintf("%v", f))
	assert.Equal(t, "2.250+3.000∆", fmt.Sprintf("%.3f", f))
	assert.Equal(t, "2.25e+00+3.00e+00∆", fmt.Sprintf("%.2e", f))
	assert.Equal(t, "2.25-3∆", fmt.Sprint(FromParts(2.25, NewSlope(-3.0))))
	assert.Contains(t, fmt.Sprintf("%d", f), "%!d(dual.Number=")
}

func TestSpecialValuesPropagate(t *testing.T) {
	zero := Var(0.0)

	inv := zero.Recip()
	assert.True(t, math.IsInf(inv.Value(), 1))
	assert.True(t, math.IsInf(Deriv(inv), -1))

	ln := Var(-1.0).Log()
	require.True(t, math.IsNaN(ln.Value()))

	root := zero.Sqrt()
	assert.Equal(t, 0.0, root.Value())
	assert.True(t, math.IsInf(Deriv(root), 1))
}
