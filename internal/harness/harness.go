package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/autodual/dual"
	"github.com/roach88/autodual/internal/testutil"
)

// Harness evaluates scenarios. It is safe for concurrent use: every
// evaluation builds its own variables and, for sparse scenarios, its own
// deterministic minter.
type Harness struct {
	logger *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger used for per-scenario diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = logger
	}
}

// New creates a harness. Logs are discarded unless WithLogger is given.
func New(opts ...Option) *Harness {
	h := &Harness{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run evaluates a scenario with a default harness.
func Run(scenario *Scenario) (*Result, error) {
	return New().Run(scenario)
}

// Run evaluates the scenario's program and checks its expectations.
//
// A returned error means the scenario itself is unusable (invalid or
// unsupported). Evaluation failures such as a dynamic length mismatch are
// part of the Result and are checked against expect.error.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	if err := ValidateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %q: %w", scenario.Name, err)
	}

	result := NewResult(scenario.Name, scenario.Kind)
	var err error
	switch scenario.Kind {
	case KindSingle:
		err = evalSingle(scenario, result)
	case KindFixed:
		err = evalFixed(scenario, result)
	case KindDynamic:
		err = evalDynamic(scenario, result)
	case KindSparse:
		err = evalSparse(scenario, result)
	}
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	for _, failure := range CheckExpectations(scenario.Expect, result) {
		result.AddFailure(failure.Error())
	}

	h.logger.Debug("scenario evaluated",
		"scenario", scenario.Name,
		"kind", scenario.Kind,
		"pass", result.Pass,
		"display", result.Display,
	)
	if !result.Pass {
		h.logger.Info("scenario failed",
			"scenario", scenario.Name,
			"failures", len(result.Failures),
		)
	}
	return result, nil
}

// RunAll evaluates scenarios concurrently, at most parallel at a time
// (unbounded if parallel <= 0). Results are returned in input order. The
// first scenario error cancels the remaining evaluations.
func (h *Harness) RunAll(ctx context.Context, scenarios []*Scenario, parallel int) ([]*Result, error) {
	results := make([]*Result, len(scenarios))

	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, scenario := range scenarios {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := h.Run(scenario)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// evaluate runs the step program over seed, which binds every variable.
// A derivative length mismatch is returned as an error with no result.
func evaluate[G dual.Grad[float64, G]](scenario *Scenario, seed map[string]num[G]) (num[G], error) {
	table := newOpTable[G]()
	env := make(map[string]num[G], len(seed)+len(scenario.Steps))
	for name, v := range seed {
		env[name] = v
	}

	var stepErr error
	out, err := dual.Try(func() num[G] {
		for i, step := range scenario.Steps {
			v, err := table.apply(step, env)
			if err != nil {
				stepErr = fmt.Errorf("steps[%d]: %w", i, err)
				return num[G]{}
			}
			env[step.Out] = v
		}
		return env[scenario.Result]
	})
	if stepErr != nil {
		return num[G]{}, stepErr
	}
	return out, err
}

// record copies the value and rendering of n into result, or the
// evaluation error if there is one.
func record[G dual.Grad[float64, G]](result *Result, n num[G], err error) bool {
	if err != nil {
		result.Error = err.Error()
		return false
	}
	result.Value = n.Value()
	result.Display = n.String()
	return true
}

func evalSingle(scenario *Scenario, result *Result) error {
	v := scenario.Variables[0]
	n, err := evaluate(scenario, map[string]dual.Single[float64]{v.Name: dual.Var(v.Value)})
	if err != nil {
		return err
	}
	record(result, n, nil)
	result.Gradient = []float64{dual.Deriv(n)}
	return nil
}

func evalFixed(scenario *Scenario, result *Result) error {
	switch len(scenario.Variables) {
	case 1:
		return evalFixedN[[1]float64](scenario, result)
	case 2:
		return evalFixedN[[2]float64](scenario, result)
	case 3:
		return evalFixedN[[3]float64](scenario, result)
	case 4:
		return evalFixedN[[4]float64](scenario, result)
	case 5:
		return evalFixedN[[5]float64](scenario, result)
	case 6:
		return evalFixedN[[6]float64](scenario, result)
	case 7:
		return evalFixedN[[7]float64](scenario, result)
	case 8:
		return evalFixedN[[8]float64](scenario, result)
	}
	return fmt.Errorf("fixed scenarios take 1 to %d variables, got %d", maxFixedVars, len(scenario.Variables))
}

func evalFixedN[A dual.Dense[float64]](scenario *Scenario, result *Result) error {
	var values A
	for i, v := range scenario.Variables {
		values[i] = v.Value
	}

	vars := dual.FixedVars[float64](values)
	seed := make(map[string]dual.Fixed[float64, A], len(vars))
	for i, v := range scenario.Variables {
		seed[v.Name] = vars[i]
	}

	n, err := evaluate(scenario, seed)
	if err != nil {
		return err
	}
	record(result, n, nil)
	grad := n.Grad()
	result.Gradient = make([]float64, grad.Len())
	for i := range result.Gradient {
		result.Gradient[i] = grad.At(i)
	}
	return nil
}

func evalDynamic(scenario *Scenario, result *Result) error {
	var groups []string
	members := make(map[string][]Variable)
	for _, v := range scenario.Variables {
		if _, ok := members[v.Group]; !ok {
			groups = append(groups, v.Group)
		}
		members[v.Group] = append(members[v.Group], v)
	}

	seed := make(map[string]dual.Dynamic[float64], len(scenario.Variables))
	for _, group := range groups {
		vs := members[group]
		values := make([]float64, len(vs))
		for i, v := range vs {
			values[i] = v.Value
		}
		for i, n := range dual.Vars(values) {
			seed[vs[i].Name] = n
		}
	}

	n, err := evaluate(scenario, seed)
	if err != nil && !dual.IsMismatch(err) {
		return err
	}
	if record(result, n, err) {
		result.Gradient = n.Grad().Values()
		if result.Gradient == nil {
			result.Gradient = []float64{}
		}
	}
	return nil
}

func evalSparse(scenario *Scenario, result *Result) error {
	minter := testutil.NewDeterministicMinter()
	seed := make(map[string]dual.Sparse[float64], len(scenario.Variables))
	names := make(map[dual.ID]string, len(scenario.Variables))
	for _, v := range scenario.Variables {
		n := dual.SparseVar(minter, v.Value)
		id, _ := dual.VarID(n)
		seed[v.Name] = n
		names[id] = v.Name
	}

	n, err := evaluate(scenario, seed)
	if err != nil {
		return err
	}
	record(result, n, nil)
	result.Partials = make(map[string]float64)
	for id, d := range n.Grad().Entries() {
		result.Partials[names[id]] = d
	}
	return nil
}

// SingleFunc compiles a single-variable scenario into a function returning
// the result's value and derivative at x. A step that fails at x yields NaN
// for both.
func SingleFunc(scenario *Scenario) (func(x float64) (float64, float64), error) {
	if err := ValidateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %q: %w", scenario.Name, err)
	}
	if scenario.Kind != KindSingle {
		return nil, fmt.Errorf("scenario %q: kind %q is not %q", scenario.Name, scenario.Kind, KindSingle)
	}
	name := scenario.Variables[0].Name
	return func(x float64) (float64, float64) {
		n, err := evaluate(scenario, map[string]dual.Single[float64]{name: dual.Var(x)})
		if err != nil {
			return math.NaN(), math.NaN()
		}
		return n.Value(), dual.Deriv(n)
	}, nil
}
