package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/autodual/internal/harness"
	"github.com/roach88/autodual/internal/solve"
)

// NewtonOptions holds flags for the newton command.
type NewtonOptions struct {
	*RootOptions
	X0      float64
	Tol     float64
	MaxIter int
	X0Set   bool // x0 given explicitly rather than taken from the scenario
}

// NewtonResult is the newton command's output.
type NewtonResult struct {
	Scenario   string  `json:"scenario"`
	Variable   string  `json:"variable"`
	Root       float64 `json:"root"`
	Iterations int     `json:"iterations"`
	Residual   float64 `json:"residual"`
}

// NewNewtonCommand creates the newton command.
func NewNewtonCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NewtonOptions{RootOptions: rootOpts}
	defaults := solve.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "newton <scenario-file>",
		Short: "Find a root of a single-variable scenario",
		Long: `Find x such that the result of a single-variable scenario is zero,
using Newton's method with derivatives from dual numbers.

The iteration starts from the scenario's variable value unless --x0 is
given. Expectations in the scenario file are ignored.

Exit codes:
  0 - Converged
  1 - Did not converge (iteration limit, zero derivative, non-finite value)
  2 - Command error (missing file, invalid or non-single scenario)

Examples:
  autodual newton ./scenarios/ideal_gas.yaml
  autodual newton ./scenarios/cubic.yaml --x0 2 --tol 1e-12 --max-iter 100`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.X0Set = cmd.Flags().Changed("x0")
			return runNewton(opts, args[0], cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.X0, "x0", 0, "starting point (default: the scenario's variable value)")
	cmd.Flags().Float64Var(&opts.Tol, "tol", defaults.Tol, "stop when |f(x)| is at most this")
	cmd.Flags().IntVar(&opts.MaxIter, "max-iter", defaults.MaxIter, "maximum number of Newton steps")

	return cmd
}

func runNewton(opts *NewtonOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, formatter.GetErrWriter())

	if opts.Tol < 0 {
		return formatter.fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("tolerance must be non-negative, got %g", opts.Tol), nil)
	}
	if opts.MaxIter <= 0 {
		return formatter.fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("max-iter must be positive, got %d", opts.MaxIter), nil)
	}

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeInvalidScenario, "failed to load scenario", err)
	}
	f, err := harness.SingleFunc(scenario)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeInvalidScenario, "cannot solve scenario", err)
	}

	variable := scenario.Variables[0]
	x0 := variable.Value
	if opts.X0Set {
		x0 = opts.X0
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger.Debug("newton start", "scenario", scenario.Name, "x0", x0, "tol", opts.Tol, "max_iter", opts.MaxIter)
	res, err := solve.NewtonFunc(ctx, f, x0, solve.Options{Tol: opts.Tol, MaxIter: opts.MaxIter, Logger: logger})
	if err != nil {
		if solve.IsNotConverged(err) {
			return formatter.fail(ExitFailure, ErrCodeNotConverged, "newton did not converge", err)
		}
		return formatter.fail(ExitCommandError, ErrCodeGeneric, "newton failed", err)
	}

	out := NewtonResult{
		Scenario:   scenario.Name,
		Variable:   variable.Name,
		Root:       res.X[0],
		Iterations: res.Iterations,
		Residual:   res.Residual,
	}
	if opts.Format == "json" {
		return formatter.Success(out)
	}

	fmt.Fprintf(formatter.Writer, "✓ %s: %s = %s\n", out.Scenario, out.Variable, strconv.FormatFloat(out.Root, 'g', -1, 64))
	fmt.Fprintf(formatter.Writer, "  iterations: %d\n", out.Iterations)
	fmt.Fprintf(formatter.Writer, "  residual:   %g\n", out.Residual)
	return nil
}
