package harness

import (
	"fmt"
	"strconv"

	"github.com/roach88/autodual/dual"
)

// num is the dual number type evaluated for payload G.
type num[G dual.Grad[float64, G]] = dual.Number[float64, G]

// opKind describes the argument shape of a step operation.
type opKind int

const (
	opUnary    opKind = iota // (x)
	opBinary                 // (x, y)
	opConst                  // (x, literal)
	opInt                    // (x, integer literal)
	opLift                   // (literal)
	opVariadic               // (x, ...)
)

// opKinds lists every operation a step may name.
var opKinds = map[string]opKind{
	"neg": opUnary, "recip": opUnary, "abs": opUnary, "signum": opUnary,
	"exp": opUnary, "exp2": opUnary, "expm1": opUnary,
	"log": opUnary, "log2": opUnary, "log10": opUnary, "log1p": opUnary,
	"sqrt": opUnary, "cbrt": opUnary,
	"sin": opUnary, "cos": opUnary, "tan": opUnary,
	"asin": opUnary, "acos": opUnary, "atan": opUnary,
	"sinh": opUnary, "cosh": opUnary, "tanh": opUnary,
	"asinh": opUnary, "acosh": opUnary, "atanh": opUnary,

	"add": opBinary, "sub": opBinary, "mul": opBinary, "div": opBinary,
	"pow": opBinary, "atan2": opBinary, "hypot": opBinary,
	"max": opBinary, "min": opBinary,

	"add_const": opConst, "sub_const": opConst, "const_sub": opConst,
	"mul_const": opConst, "div_const": opConst, "const_div": opConst,
	"pow_real": opConst,

	"pow_int": opInt,
	"const":   opLift,
	"sum":     opVariadic,
	"product": opVariadic,
}

func lookupOp(name string) (opKind, bool) {
	k, ok := opKinds[name]
	return k, ok
}

// checkArgs validates args for this operation shape. bound holds the names
// defined so far.
func (k opKind) checkArgs(args []string, bound map[string]bool) error {
	want := map[opKind]int{opUnary: 1, opBinary: 2, opConst: 2, opInt: 2, opLift: 1}
	if n, ok := want[k]; ok && len(args) != n {
		return fmt.Errorf("takes %d argument(s), got %d", n, len(args))
	}
	if k == opVariadic && len(args) == 0 {
		return fmt.Errorf("takes at least one argument")
	}

	names := args
	switch k {
	case opConst:
		if _, err := parseLiteral(args[1]); err != nil {
			return fmt.Errorf("second argument must be a number: %w", err)
		}
		names = args[:1]
	case opInt:
		if _, err := strconv.Atoi(args[1]); err != nil {
			return fmt.Errorf("second argument must be an integer: %w", err)
		}
		names = args[:1]
	case opLift:
		if _, err := parseLiteral(args[0]); err != nil {
			return fmt.Errorf("argument must be a number: %w", err)
		}
		names = nil
	}

	for _, name := range names {
		if !bound[name] {
			return fmt.Errorf("%q is not bound", name)
		}
	}
	return nil
}

func parseLiteral(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// opTable holds the dual operations for payload G, keyed by step op name.
type opTable[G dual.Grad[float64, G]] struct {
	unary  map[string]func(num[G]) num[G]
	binary map[string]func(num[G], num[G]) num[G]
	consts map[string]func(num[G], float64) num[G]
}

func newOpTable[G dual.Grad[float64, G]]() *opTable[G] {
	return &opTable[G]{
		unary: map[string]func(num[G]) num[G]{
			"neg": num[G].Neg, "recip": num[G].Recip,
			"abs": num[G].Abs, "signum": num[G].Signum,
			"exp": num[G].Exp, "exp2": num[G].Exp2, "expm1": num[G].Expm1,
			"log": num[G].Log, "log2": num[G].Log2,
			"log10": num[G].Log10, "log1p": num[G].Log1p,
			"sqrt": num[G].Sqrt, "cbrt": num[G].Cbrt,
			"sin": num[G].Sin, "cos": num[G].Cos, "tan": num[G].Tan,
			"asin": num[G].Asin, "acos": num[G].Acos, "atan": num[G].Atan,
			"sinh": num[G].Sinh, "cosh": num[G].Cosh, "tanh": num[G].Tanh,
			"asinh": num[G].Asinh, "acosh": num[G].Acosh, "atanh": num[G].Atanh,
		},
		binary: map[string]func(num[G], num[G]) num[G]{
			"add": num[G].Add, "sub": num[G].Sub,
			"mul": num[G].Mul, "div": num[G].Div,
			"pow": num[G].Pow, "atan2": num[G].Atan2, "hypot": num[G].Hypot,
			"max": num[G].Max, "min": num[G].Min,
		},
		consts: map[string]func(num[G], float64) num[G]{
			"add_const": num[G].AddConst, "sub_const": num[G].SubConst,
			"const_sub": num[G].ConstSub, "mul_const": num[G].MulConst,
			"div_const": num[G].DivConst, "const_div": num[G].ConstDiv,
			"pow_real": num[G].PowReal,
		},
	}
}

// apply evaluates one step against env. The step has been validated, so
// names are bound and literals parse.
func (t *opTable[G]) apply(step Step, env map[string]num[G]) (num[G], error) {
	var zero num[G]
	kind, ok := lookupOp(step.Op)
	if !ok {
		return zero, fmt.Errorf("unknown op %q", step.Op)
	}

	switch kind {
	case opUnary:
		return t.unary[step.Op](env[step.Args[0]]), nil
	case opBinary:
		return t.binary[step.Op](env[step.Args[0]], env[step.Args[1]]), nil
	case opConst:
		c, err := parseLiteral(step.Args[1])
		if err != nil {
			return zero, err
		}
		return t.consts[step.Op](env[step.Args[0]], c), nil
	case opInt:
		k, err := strconv.Atoi(step.Args[1])
		if err != nil {
			return zero, err
		}
		return env[step.Args[0]].PowInt(k), nil
	case opLift:
		c, err := parseLiteral(step.Args[0])
		if err != nil {
			return zero, err
		}
		return dual.Const[G](c), nil
	case opVariadic:
		xs := make([]num[G], len(step.Args))
		for i, name := range step.Args {
			xs[i] = env[name]
		}
		if step.Op == "product" {
			return dual.Product(xs...), nil
		}
		return dual.Sum(xs...), nil
	}
	return zero, fmt.Errorf("unhandled op kind for %q", step.Op)
}
