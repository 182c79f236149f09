package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/autodual/internal/harness"
)

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval <scenario-file>",
		Short: "Evaluate a single scenario and print its result",
		Long: `Evaluate one scenario file and print the value, derivative and
display form of its result, together with any unmet expectations.

Exit codes:
  0 - Scenario evaluated and every expectation matched
  1 - One or more expectations failed
  2 - Command error (missing file, invalid scenario)

Examples:
  autodual eval ./scenarios/square_plus_one.yaml
  autodual eval ./scenarios/fixed_shifted_product.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runEval(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	logger := newLogger(opts, formatter.GetErrWriter())

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeInvalidScenario, "failed to load scenario", err)
	}
	formatter.VerboseLog("Loaded scenario %s (%s, %d variable(s), %d step(s))",
		scenario.Name, scenario.Kind, len(scenario.Variables), len(scenario.Steps))

	result, err := harness.New(harness.WithLogger(logger)).Run(scenario)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeInvalidScenario, "failed to evaluate scenario", err)
	}

	if opts.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result}
		if !result.Pass {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    ErrCodeScenarioFailed,
				Message: fmt.Sprintf("%d expectation(s) failed", len(result.Failures)),
				Details: result.Failures,
			}
		}
		if err := writeJSON(formatter.Writer, resp); err != nil {
			return err
		}
	} else {
		printResult(formatter.Writer, result)
	}

	if !result.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed", result.Scenario))
	}
	return nil
}

// printResult writes a human-readable summary of r.
func printResult(w io.Writer, r *harness.Result) {
	mark := "✓"
	if !r.Pass {
		mark = "✗"
	}
	fmt.Fprintf(w, "%s %s (%s)\n", mark, r.Scenario, r.Kind)

	if r.Error != "" {
		fmt.Fprintf(w, "  error:    %s\n", r.Error)
	} else {
		fmt.Fprintf(w, "  value:    %s\n", strconv.FormatFloat(r.Value, 'g', -1, 64))
		if r.Kind == harness.KindSparse {
			fmt.Fprintf(w, "  partials: %s\n", harness.FormatPartials(r.Partials))
		} else {
			fmt.Fprintf(w, "  gradient: %v\n", r.Gradient)
		}
		fmt.Fprintf(w, "  display:  %s\n", r.Display)
	}

	for _, f := range r.Failures {
		fmt.Fprintf(w, "  %s\n", f)
	}
}
