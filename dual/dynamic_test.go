package dual

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVars_BasisVectors(t *testing.T) {
	vars := Vars([]float64{4, 5, 6})
	require.Len(t, vars, 3)

	for i, v := range vars {
		require.Equal(t, 3, v.Grad().Len())
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			assert.Equal(t, want, v.Grad().At(j))
		}
	}
}

func TestDynamic_SumOfDoubles(t *testing.T) {
	vars := Vars([]float64{1, 2, 3, 4, 5})

	terms := make([]Dynamic[float64], len(vars))
	for i, v := range vars {
		terms[i] = v.MulConst(2)
	}
	f := Sum(terms...)

	assert.Equal(t, 30.0, f.Value())
	assert.Equal(t, []float64{2, 2, 2, 2, 2}, f.Grad().Values())
}

func TestDynamic_Product(t *testing.T) {
	vars := Vars([]float64{1, 2, 3, 4, 5})
	f := Product(vars...)

	assert.Equal(t, 120.0, f.Value())
	assert.Equal(t, []float64{120, 60, 40, 30, 24}, f.Grad().Values())
}

func TestDynamic_ShiftedProductHasZero(t *testing.T) {
	vars := Vars([]float64{1, 2, 3})
	shifted := make([]Dynamic[float64], len(vars))
	for i, v := range vars {
		shifted[i] = v.SubConst(1)
	}
	f := Product(shifted...)

	assert.Equal(t, 0.0, f.Value())
	assert.Equal(t, []float64{2, 0, 0}, f.Grad().Values())
}

func TestDynamic_Div(t *testing.T) {
	vars := Vars([]float64{1, 2})
	f := vars[0].Div(vars[1])

	assert.Equal(t, 0.5, f.Value())
	assert.Equal(t, []float64{0.5, -0.25}, f.Grad().Values())
}

func TestDynamic_ConstantCombinesWithAnyLength(t *testing.T) {
	vars := Vars([]float64{1, 2, 3})
	c := Const[Vector[float64]](10.0)

	f := vars[2].Add(c).Mul(c)
	assert.Equal(t, 130.0, f.Value())
	assert.Equal(t, []float64{0, 0, 10}, f.Grad().Values())

	g := c.Sub(vars[0])
	assert.Equal(t, []float64{-1, 0, 0}, g.Grad().Values())
}

func TestDynamic_MismatchPanics(t *testing.T) {
	a := Vars([]float64{1, 2})[0]
	b := Vars([]float64{1, 2, 3})[0]

	assert.PanicsWithError(t, "dual: derivative length mismatch: 2 != 3", func() {
		_ = a.Add(b)
	})
}

func TestTry_RecoversMismatch(t *testing.T) {
	a := Vars([]float64{1, 2})[0]
	b := Vars([]float64{1, 2, 3})[1]

	got, err := Try(func() Dynamic[float64] {
		return a.Mul(b).AddConst(1)
	})
	require.Error(t, err)
	assert.True(t, IsMismatch(err))
	assert.True(t, IsMismatch(fmt.Errorf("wrapped: %w", err)))
	assert.Equal(t, Dynamic[float64]{}, got, "no partial result on error")

	var me *MismatchError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, 2, me.Left)
	assert.Equal(t, 3, me.Right)
}

func TestTry_PassesThroughSuccess(t *testing.T) {
	vars := Vars([]float64{2, 3})

	got, err := Try(func() Dynamic[float64] {
		return vars[0].Mul(vars[1])
	})
	require.NoError(t, err)
	assert.Equal(t, 6.0, got.Value())
	assert.Equal(t, []float64{3, 2}, got.Grad().Values())
}

func TestTry_RepanicsOtherPanics(t *testing.T) {
	assert.PanicsWithValue(t, "boom", func() {
		_, _ = Try(func() int { panic("boom") })
	})
}

func TestDynamic_ResultsDoNotAlias(t *testing.T) {
	vars := Vars([]float64{1, 2})
	values := vars[0].Grad().Values()
	values[0] = 99
	values[1] = 99

	assert.Equal(t, []float64{1, 0}, vars[0].Grad().Values())
	assert.Equal(t, []float64{0, 1}, vars[1].Grad().Values())

	src := []float64{1, 2}
	n := FromParts(0.0, NewVector(src))
	src[0] = 5
	assert.Equal(t, 1.0, n.Grad().At(0))
}

func TestDynamic_Display(t *testing.T) {
	vars := Vars([]float64{1, 2})
	f := vars[0].Mul(vars[1])

	assert.Equal(t, "2+[2.0, 1.0]∆", f.String())
	assert.Equal(t, "3+[]∆", Const[Vector[float64]](3.0).String())
}
