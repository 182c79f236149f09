// Package solve finds roots of nonlinear equations with Newton's method,
// taking exact derivatives from dual numbers instead of finite
// differences.
//
// Newton handles one equation in one unknown with single-variable duals.
// NewtonSystem and NewtonSparse handle systems: each iteration turns the
// current point into independent variables, evaluates the residuals,
// assembles the Jacobian from their derivative payloads and solves the
// linear step with a QR factorization. Overdetermined systems take the
// least-squares (Gauss-Newton) step.
package solve
