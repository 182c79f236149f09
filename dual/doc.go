// Package dual implements forward-mode automatic differentiation with dual
// numbers.
//
// A dual number pairs a value with the exact partial derivatives of that
// value with respect to a set of independent variables. Every arithmetic or
// transcendental operation on dual numbers returns a new dual number whose
// derivative payload has been propagated by the chain rule, so evaluating an
// expression once yields both its value and its gradient.
//
// # Representations
//
// The derivative payload comes in four shapes, all sharing the arithmetic
// defined on [Number]:
//
//   - [Single]: one variable, the derivative is a single scalar ([Slope]).
//   - [Fixed]: N variables known at compile time, a dense array ([Array]).
//     N is part of the type, so mixing sizes does not compile.
//   - [Dynamic]: N variables known at run time, a dense slice ([Vector]).
//     Combining payloads of different lengths panics with a
//     [*MismatchError]; wrap the computation in [Try] to get an error back.
//   - [Sparse]: a map from variable [ID] to nonzero partial ([Map]).
//     Operands over disjoint or overlapping variable sets always combine.
//
// # Variables
//
// Independent variables are created only by [Var], [FixedVars], [Vars],
// [SparseVar] and [SparseVars]. Everything else is a derived value. Sparse
// variables draw their identity from a [Minter]; [DefaultMinter] is a
// process-wide [Counter].
//
// # Usage
//
//	x := dual.Var(2.0)
//	f := x.Mul(x).AddConst(1)
//	fmt.Println(f) // 5+4∆
//
//	v := dual.FixedVars[float64]([2]float64{2, 3})
//	g := v[0].Mul(v[1].SubConst(1))
//	fmt.Println(g) // 4+[2.0, 2.0]∆
//
// Numbers are immutable and payloads are never shared mutably, so
// independent sub-expressions may be evaluated concurrently.
package dual
