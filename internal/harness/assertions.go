package harness

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/roach88/autodual/internal/snapshot"
)

// AssertionError is returned when an expectation is not met.
type AssertionError struct {
	Field    string // Expectation that failed: value, gradient, partials, display or error
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Field, e.Expected, e.Actual)
}

// CheckExpectations compares a result against exp and returns one error per
// unmet expectation.
func CheckExpectations(exp Expectation, r *Result) []error {
	if exp.Error != "" {
		if r.Error == "" {
			return []error{&AssertionError{
				Field:    "error",
				Expected: fmt.Sprintf("an error containing %q", exp.Error),
				Actual:   fmt.Sprintf("result %s", r.Display),
			}}
		}
		if !strings.Contains(r.Error, exp.Error) {
			return []error{&AssertionError{
				Field:    "error",
				Expected: fmt.Sprintf("an error containing %q", exp.Error),
				Actual:   fmt.Sprintf("%q", r.Error),
			}}
		}
		return nil
	}
	if r.Error != "" {
		return []error{&AssertionError{
			Field:    "error",
			Expected: "no error",
			Actual:   fmt.Sprintf("%q", r.Error),
		}}
	}

	var errs []error
	if exp.Value != nil && !closeEnough(*exp.Value, r.Value, exp.Tolerance) {
		errs = append(errs, &AssertionError{
			Field:    "value",
			Expected: formatFloat(*exp.Value),
			Actual:   formatFloat(r.Value),
		})
	}
	if exp.Gradient != nil {
		if err := assertGradient(exp.Gradient, r.Gradient, exp.Tolerance); err != nil {
			errs = append(errs, err)
		}
	}
	if exp.Partials != nil {
		if err := assertPartials(exp.Partials, r.Partials, exp.Tolerance); err != nil {
			errs = append(errs, err)
		}
	}
	if exp.Display != "" && exp.Display != r.Display {
		errs = append(errs, &AssertionError{
			Field:    "display",
			Expected: fmt.Sprintf("%q", exp.Display),
			Actual:   fmt.Sprintf("%q", r.Display),
		})
	}
	return errs
}

func assertGradient(want, got []float64, tol float64) error {
	mismatch := len(want) != len(got)
	for i := 0; !mismatch && i < len(want); i++ {
		mismatch = !closeEnough(want[i], got[i], tol)
	}
	if !mismatch {
		return nil
	}
	return &AssertionError{
		Field:    "gradient",
		Expected: formatVector(want),
		Actual:   formatVector(got),
	}
}

// assertPartials requires exactly the expected set of variables to carry a
// stored partial.
func assertPartials(want, got map[string]float64, tol float64) error {
	mismatch := len(want) != len(got)
	for name, w := range want {
		g, ok := got[name]
		if !ok || !closeEnough(w, g, tol) {
			mismatch = true
			break
		}
	}
	if !mismatch {
		return nil
	}
	return &AssertionError{
		Field:    "partials",
		Expected: FormatPartials(want),
		Actual:   FormatPartials(got),
	}
}

// closeEnough reports whether got matches want within tol. Equal infinities
// match, and NaN matches NaN.
func closeEnough(want, got, tol float64) bool {
	if want == got {
		return true
	}
	if math.IsNaN(want) && math.IsNaN(got) {
		return true
	}
	return math.Abs(want-got) <= tol
}

func formatFloat(x float64) string {
	if s, err := snapshot.FormatNumber(x); err == nil {
		return s
	}
	return fmt.Sprint(x)
}

func formatVector(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = formatFloat(x)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FormatPartials renders partials in name order, e.g. "{x: 3, y: 2}".
func FormatPartials(m map[string]float64) string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + formatFloat(m[name])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
