package solve

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/roach88/autodual/dual"
)

// DenseJacobian assembles the len(fs)×n Jacobian from dynamic duals whose
// derivative vectors have length n. Constant outputs contribute a zero row.
func DenseJacobian(fs []dual.Dynamic[float64], n int) (*mat.Dense, error) {
	if len(fs) == 0 || n == 0 {
		return nil, fmt.Errorf("jacobian: empty system (%d equations, %d variables)", len(fs), n)
	}
	j := mat.NewDense(len(fs), n, nil)
	for i, f := range fs {
		g := f.Grad()
		if g.Len() == 0 {
			continue
		}
		if g.Len() != n {
			return nil, fmt.Errorf("jacobian row %d: %w", i, &dual.MismatchError{Left: g.Len(), Right: n})
		}
		for k := 0; k < n; k++ {
			j.Set(i, k, g.At(k))
		}
	}
	return j, nil
}

// SparseJacobian assembles the len(fs)×len(ids) Jacobian from sparse duals.
// Column k holds the partials with respect to ids[k]; partials with respect
// to variables not listed are ignored, which treats them as parameters.
func SparseJacobian(fs []dual.Sparse[float64], ids []dual.ID) (*mat.Dense, error) {
	if len(fs) == 0 || len(ids) == 0 {
		return nil, fmt.Errorf("jacobian: empty system (%d equations, %d variables)", len(fs), len(ids))
	}
	j := mat.NewDense(len(fs), len(ids), nil)
	for i, f := range fs {
		g := f.Grad()
		for k, id := range ids {
			if d := g.Partial(id); d != 0 {
				j.Set(i, k, d)
			}
		}
	}
	return j, nil
}

// values returns the real parts of fs.
func values[G dual.Grad[float64, G]](fs []dual.Number[float64, G]) []float64 {
	out := make([]float64, len(fs))
	for i, f := range fs {
		out[i] = f.Value()
	}
	return out
}
