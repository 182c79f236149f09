package solve

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/roach88/autodual/dual"
)

// Options controls a Newton iteration.
type Options struct {
	// Tol is the residual norm at which the iteration stops.
	Tol float64

	// MaxIter is the maximum number of Newton steps.
	MaxIter int

	// Logger receives one Debug record per iteration. Nil discards.
	Logger *slog.Logger
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{Tol: 1e-10, MaxIter: 50}
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

// Result is a converged Newton solution.
type Result struct {
	X          []float64 // the root
	Iterations int       // Newton steps taken
	Residual   float64   // Euclidean norm of the residual at X
}

// linearization evaluates the residual and its Jacobian at x.
type linearization func(x []float64) (r []float64, j *mat.Dense, err error)

// Newton solves f(x) = 0 for a scalar x starting from x0.
func Newton(ctx context.Context, f func(dual.Single[float64]) dual.Single[float64], x0 float64, opts Options) (Result, error) {
	return NewtonFunc(ctx, func(x float64) (float64, float64) {
		return dual.Eval(f, x)
	}, x0, opts)
}

// NewtonFunc solves f(x) = 0 where f returns its value and derivative.
func NewtonFunc(ctx context.Context, f func(x float64) (value, deriv float64), x0 float64, opts Options) (Result, error) {
	return iterate(ctx, []float64{x0}, opts, func(x []float64) ([]float64, *mat.Dense, error) {
		v, d := f(x[0])
		return []float64{v}, mat.NewDense(1, 1, []float64{d}), nil
	})
}

// NewtonSystem solves F(x) = 0 for a system of equations, with derivatives
// from dynamic duals. F must combine only the variables it is given (and
// constants); mixing in variables of another length is reported as a
// *dual.MismatchError.
func NewtonSystem(ctx context.Context, F func([]dual.Dynamic[float64]) []dual.Dynamic[float64], x0 []float64, opts Options) (Result, error) {
	return iterate(ctx, x0, opts, func(x []float64) ([]float64, *mat.Dense, error) {
		out, err := dual.Try(func() []dual.Dynamic[float64] {
			return F(dual.Vars(x))
		})
		if err != nil {
			return nil, nil, fmt.Errorf("evaluating residual: %w", err)
		}
		j, err := DenseJacobian(out, len(x))
		if err != nil {
			return nil, nil, err
		}
		return values(out), j, nil
	})
}

// NewtonSparse solves F(x) = 0 with derivatives from sparse duals. Each
// iteration mints fresh variables from m (dual.DefaultMinter if nil) and
// orders Jacobian columns like x.
func NewtonSparse(ctx context.Context, F func([]dual.Sparse[float64]) []dual.Sparse[float64], x0 []float64, m dual.Minter, opts Options) (Result, error) {
	return iterate(ctx, x0, opts, func(x []float64) ([]float64, *mat.Dense, error) {
		vars := dual.SparseVars(m, x)
		ids := make([]dual.ID, len(vars))
		for i, v := range vars {
			ids[i], _ = dual.VarID(v)
		}
		out := F(vars)
		j, err := SparseJacobian(out, ids)
		if err != nil {
			return nil, nil, err
		}
		return values(out), j, nil
	})
}

func iterate(ctx context.Context, x0 []float64, opts Options, lin linearization) (Result, error) {
	if opts.MaxIter <= 0 {
		opts.MaxIter = DefaultOptions().MaxIter
	}
	logger := opts.logger()

	x := append([]float64(nil), x0...)
	for iter := 0; ; iter++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		r, j, err := lin(x)
		if err != nil {
			return Result{}, fmt.Errorf("newton iteration %d: %w", iter, err)
		}
		residual := mat.Norm(mat.NewVecDense(len(r), r), 2)

		logger.Debug("newton iteration",
			"iter", iter,
			"residual", residual,
			"x", x,
		)

		if math.IsNaN(residual) || math.IsInf(residual, 0) {
			return Result{}, &ConvergenceError{Code: CodeNonFinite, Iterations: iter, Residual: residual, X: x}
		}
		if residual <= opts.Tol {
			return Result{X: x, Iterations: iter, Residual: residual}, nil
		}
		if iter == opts.MaxIter {
			return Result{}, &ConvergenceError{Code: CodeNotConverged, Iterations: iter, Residual: residual, X: x}
		}

		step, err := solveStep(j, r)
		if err != nil {
			return Result{}, &ConvergenceError{Code: CodeSingular, Iterations: iter, Residual: residual, X: x, Err: err}
		}
		for i := range x {
			x[i] -= step.AtVec(i)
		}
	}
}

// solveStep solves J·dx = r (in the least-squares sense if J is tall).
func solveStep(j *mat.Dense, r []float64) (*mat.VecDense, error) {
	rows, cols := j.Dims()
	if rows < cols {
		return nil, fmt.Errorf("underdetermined system: %d equations, %d variables", rows, cols)
	}

	var qr mat.QR
	qr.Factorize(j)

	var dx mat.VecDense
	if err := qr.SolveVecTo(&dx, false, mat.NewVecDense(rows, r)); err != nil {
		return nil, err
	}
	for i := 0; i < dx.Len(); i++ {
		if v := dx.AtVec(i); math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("non-finite step component %d", i)
		}
	}
	return &dx, nil
}
